package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"glassmark/internal/config"
	"glassmark/internal/control"
	"glassmark/internal/hotkey"
	"glassmark/internal/hotkey/oshotkey"
	"glassmark/internal/notify"
	"glassmark/internal/overlay"
	"glassmark/internal/route"
	"glassmark/internal/storage"
	"glassmark/internal/tray"
	"glassmark/internal/winstyle"
)

const (
	version = "1.0.0"
	// surfaceTitle 渲染层主窗口标题
	surfaceTitle = "Glassmark Overlay"
)

func main() {
	setHotkeyFlag := flag.String("set-hotkey", "", "设置热键，格式：undo=ctrl+z；只写动作名时交互输入")
	showConfig := flag.Bool("config", false, "显示配置文件路径")
	send := flag.String("send", "", "让正在运行的实例执行动作，例如 undo、toggleCursor")
	showVersion := flag.Bool("version", false, "显示版本信息")
	flag.Parse()

	if *showVersion {
		fmt.Println("Glassmark v" + version)
		fmt.Println("屏幕标注工具")
		return
	}

	if *showConfig {
		printPaths()
		return
	}

	if *send != "" {
		if err := sendAction(*send); err != nil {
			fmt.Println("发送失败:", err)
			os.Exit(1)
		}
		return
	}

	if *setHotkeyFlag != "" {
		b, err := updateHotkey(*setHotkeyFlag)
		if err != nil {
			fmt.Println("设置快捷键失败:", err)
			os.Exit(1)
		}
		fmt.Println("快捷键已设置为:", b)
		return
	}

	// 热键需要在主线程上注册
	oshotkey.Run(run)
}

func printPaths() {
	dir := config.DefaultDir()
	opts, err := config.LoadOptions(config.OptionsPath(dir))
	if err != nil {
		fmt.Println("选项文件无效:", err)
	}
	fmt.Println("设置文件:", config.DefaultPath())
	fmt.Println("选项文件:", config.OptionsPath(dir))
	fmt.Println("会话文件:", opts.SessionPath(dir))
	fmt.Println("控制地址:", control.DefaultAddress())
}

func sendAction(name string) error {
	a, err := hotkey.ParseAction(name)
	if err != nil {
		return err
	}
	return control.Send("", a)
}

// updateHotkey 解析 action=combo 并写入设置文件。正在运行的实例会监视到修改
func updateHotkey(arg string) (hotkey.Binding, error) {
	name, combo, hasCombo := strings.Cut(arg, "=")
	a, err := hotkey.ParseAction(name)
	if err != nil {
		return hotkey.Unassigned, err
	}

	path := config.DefaultPath()
	settings, err := config.Load(path)
	if err != nil {
		fmt.Println("设置文件无效，将使用默认设置:", err)
	}

	var b hotkey.Binding
	if hasCombo {
		if b, err = hotkey.ParseBinding(combo); err != nil {
			return hotkey.Unassigned, err
		}
	} else {
		var ok bool
		if b, ok = hotkey.PromptBinding(a, settings.Hotkeys[a]); !ok {
			return hotkey.Unassigned, errors.New("已取消")
		}
	}

	settings.SetHotkey(a, b)
	if err := settings.Save(path); err != nil {
		return hotkey.Unassigned, err
	}
	return b, nil
}

func run() {
	dpi := enableDPIAwareness()
	dir := config.DefaultDir()
	opts, optsErr := config.EnsureOptions(config.OptionsPath(dir))
	closeLog := setupLogging(opts.SlogLevel(), dir)
	defer closeLog()
	if optsErr != nil {
		slog.Warn("[main] options invalid, using defaults", "error", optsErr)
	}

	notifier := notify.New()
	settingsPath := config.DefaultPath()
	settings, err := config.Load(settingsPath)
	if err != nil {
		notifier.Show("设置文件无效", err.Error())
	}

	store := storage.NewStore(opts.SessionPath(dir))
	session := store.Load()

	virtual, primary := desktopBounds()
	slog.Info("[main] starting",
		"version", version,
		"dpi", dpi,
		"virtual", virtual,
		"primary", primary,
		"session", store.Path(),
	)

	var ov *overlay.Overlay
	post := func(ev overlay.Event) { ov.Post(ev) }

	deps := overlay.Deps{
		Store:        store,
		Initial:      session,
		Settings:     settings,
		SettingsPath: settingsPath,
		Options:      opts,
		Hotkeys:      oshotkey.New(func(id int) { post(overlay.HotkeyPressed{ID: id}) }),
		Notifier:     notifier,
		Layout:       route.NewLayout(virtual.Size(), primary, virtual.Min(), route.DefaultSizes()),
		Origin:       virtual.Min(),
	}
	if w, err := winstyle.Find(surfaceTitle); err == nil {
		deps.Surface = w
	} else {
		slog.Info("[main] no overlay window to style", "error", err)
	}
	ov = overlay.New(deps)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	t := tray.NewTray()
	t.SetHotkeys(settings.Hotkeys)
	t.SetOnAction(func(a hotkey.Action) { post(overlay.ActionEvent{Action: a}) })
	t.SetOnOpenDir(func() { openDir(dir) })
	t.SetOnQuit(func() { post(overlay.ActionEvent{Action: hotkey.CloseApp}) })

	if err := config.Watch(ctx, settingsPath, func() {
		post(overlay.SettingsChanged{})
		post(overlay.Call{Fn: func(o *overlay.Overlay) { t.SetHotkeys(o.Settings().Hotkeys) }})
	}); err != nil {
		slog.Warn("[main] settings watch disabled", "error", err)
	}

	if opts.ControlEnabled {
		srv := control.NewServer("", func(a hotkey.Action) error {
			post(overlay.ActionEvent{Action: a})
			return nil
		})
		if err := srv.Start(); err != nil {
			slog.Warn("[main] control channel disabled", "error", err)
		} else {
			defer srv.Stop()
		}
	}

	fmt.Println("Glassmark v" + version + " 已启动")
	fmt.Println("设置文件:", settingsPath)

	go func() {
		if err := ov.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("[main] event loop failed", "error", err)
		}
		t.Quit()
	}()

	// 托盘阻塞到退出
	t.Run()
	cancel()
	<-ov.Done()
}

func openDir(dir string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer.exe", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("[main] open dir failed", "dir", dir, "error", err)
	}
}
