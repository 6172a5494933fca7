package invoice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage 发票附件存储
type Storage interface {
	Save(name string, data []byte) (string, error)
	Read(path string) ([]byte, error)
	Exists(path string) bool
	Remove(path string) error
}

// LocalStorage 本地目录存储
type LocalStorage struct {
	dir string
}

// NewLocalStorage 创建本地存储，目录不存在时自动创建
func NewLocalStorage(dir string) (*LocalStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("invoice dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoice dir failed: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save 写入文件，先写临时文件再重命名
func (s *LocalStorage) Save(name string, data []byte) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errors.New("invoice file name is empty")
	}
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	return target, nil
}

// Read 读取文件
func (s *LocalStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists 判断文件是否存在
func (s *LocalStorage) Exists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Remove 删除文件，不存在视为成功
func (s *LocalStorage) Remove(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
