package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"glassmark/internal/annotate"
)

// SessionFileName 会话文件名
const SessionFileName = "last-session.json"

// maxSessionBytes 会话文件读取上限
const maxSessionBytes = 64 << 20

// Store 会话快照存储：负责序列化和落盘，同时作为撤销栈的编解码器
type Store struct {
	path string
}

// NewStore 创建会话存储
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path 会话文件路径
func (s *Store) Path() string {
	return s.path
}

// Directory 会话文件所在目录
func (s *Store) Directory() string {
	return filepath.Dir(s.path)
}

// Serialize 会话转为缩进 JSON
func Serialize(session annotate.Session) ([]byte, error) {
	doc := session.Clone()
	// 保证空列表写成 [] 而不是 null
	if doc.Strokes == nil {
		doc.Strokes = []annotate.Stroke{}
	}
	if doc.Shapes == nil {
		doc.Shapes = []annotate.Shape{}
	}
	if doc.TextBoxes == nil {
		doc.TextBoxes = []annotate.TextBox{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Deserialize 解析会话文档，返回独立的新实例
func Deserialize(data []byte) (annotate.Session, error) {
	var doc annotate.Session
	if err := json.Unmarshal(data, &doc); err != nil {
		return annotate.Session{}, fmt.Errorf("parse session: %w", err)
	}
	return normalize(doc), nil
}

// normalize 丢弃空墨迹，修正文本框尺寸
func normalize(doc annotate.Session) annotate.Session {
	out := annotate.Session{
		Strokes:   make([]annotate.Stroke, 0, len(doc.Strokes)),
		Shapes:    make([]annotate.Shape, 0, len(doc.Shapes)),
		TextBoxes: make([]annotate.TextBox, 0, len(doc.TextBoxes)),
	}
	for _, st := range doc.Strokes {
		if len(st.Points) == 0 {
			continue
		}
		out.Strokes = append(out.Strokes, st)
	}
	out.Shapes = append(out.Shapes, doc.Shapes...)
	for _, tb := range doc.TextBoxes {
		tb.Size.W = max(tb.Size.W, annotate.MinTextWidth)
		tb.Size.H = max(tb.Size.H, annotate.MinTextHeight)
		if tb.FontSize <= 0 {
			tb.FontSize = annotate.DefaultFontSize
		}
		out.TextBoxes = append(out.TextBoxes, tb)
	}
	return out
}

// Encode 撤销栈使用的紧凑编码
func (s *Store) Encode(session annotate.Session) (string, error) {
	b, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode 撤销栈使用的解码
func (s *Store) Decode(v string) (annotate.Session, error) {
	return Deserialize([]byte(v))
}

// Save 原子写入会话文件
func (s *Store) Save(session annotate.Session) error {
	data, err := Serialize(session)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	if err := WriteAtomic(s.path, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load 读取会话。文件不存在或损坏时返回空会话，损坏的文件改名保留
func (s *Store) Load() annotate.Session {
	data, err := ReadLimited(s.path, maxSessionBytes)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("[storage] failed to read session, starting empty", "path", s.path, "error", err)
		}
		return annotate.Session{}
	}

	session, err := Deserialize(data)
	if err != nil {
		slog.Warn("[storage] corrupt session, starting empty", "path", s.path, "error", err)
		if moved, qErr := Quarantine(s.path); qErr != nil {
			slog.Warn("[storage] failed to quarantine corrupt session", "path", s.path, "error", qErr)
		} else {
			slog.Info("[storage] corrupt session preserved", "path", moved)
		}
		return annotate.Session{}
	}
	return session
}
