//go:build !windows

package tray

func getIcon() []byte {
	return encodePNG(drawIcon())
}
