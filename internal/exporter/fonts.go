package exporter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	ttfMagic  = []byte{0x00, 0x01, 0x00, 0x00}
	trueMagic = []byte("true")
	ttcMagic  = []byte("ttcf")
	cffMagic  = []byte("OTTO")
)

var (
	// ErrFontUnavailable 没有可用的 PDF 字体
	ErrFontUnavailable = errors.New("未找到可用的 TrueType 中文字体")

	errNotTrueType   = errors.New("不是 TrueType 字体")
	errCFFOutlines   = errors.New("CFF 轮廓字体不受支持")
	errBadCollection = errors.New("字体集合（TTC）格式错误")
)

// FontStatus 字体加载结果
type FontStatus struct {
	Path   string `json:"path,omitempty"`
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// fontSource 首次使用时加载字体，之后复用
type fontSource struct {
	candidates []string

	once   sync.Once
	path   string
	data   []byte
	reason string
}

func newFontSource(candidates []string) *fontSource {
	return &fontSource{candidates: candidates}
}

func (s *fontSource) load() {
	s.once.Do(func() {
		var failures []string
		for _, p := range s.candidates {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			data, err := readTrueType(p)
			if err != nil {
				failures = append(failures, err.Error())
				continue
			}
			s.path, s.data = p, data
			return
		}
		if len(failures) == 0 {
			s.reason = "未配置字体"
			return
		}
		s.reason = strings.Join(failures, "; ")
	})
}

// Status 字体状态（会触发加载）
func (s *fontSource) Status() FontStatus {
	s.load()
	if s.data == nil {
		return FontStatus{Reason: s.reason}
	}
	return FontStatus{Path: s.path, Ready: true}
}

// readTrueType 读取 TrueType 字体；TTC 集合取第一个字体
func readTrueType(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, ttcMagic) {
		if data, err = firstCollectionFace(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	switch {
	case bytes.HasPrefix(data, cffMagic):
		return nil, fmt.Errorf("%s: %w", path, errCFFOutlines)
	case len(data) < 12 || !(bytes.HasPrefix(data, ttfMagic) || bytes.HasPrefix(data, trueMagic)):
		return nil, fmt.Errorf("%s: %w", path, errNotTrueType)
	}
	return data, nil
}

// firstCollectionFace 把 TTC 中第一个字体重排为独立的 TTF
//
// 表目录中的偏移是相对整个集合文件的，需要按新位置改写。
func firstCollectionFace(data []byte) ([]byte, error) {
	if len(data) < 16 || binary.BigEndian.Uint32(data[8:12]) == 0 {
		return nil, errBadCollection
	}
	off := int(binary.BigEndian.Uint32(data[12:16]))
	if off+12 > len(data) {
		return nil, errBadCollection
	}
	numTables := int(binary.BigEndian.Uint16(data[off+4 : off+6]))
	dirLen := 12 + 16*numTables
	if off+dirLen > len(data) {
		return nil, errBadCollection
	}

	out := make([]byte, dirLen, len(data))
	copy(out, data[off:off+dirLen])
	for i := 0; i < numTables; i++ {
		rec := out[12+16*i : 12+16*(i+1)]
		start := int(binary.BigEndian.Uint32(rec[8:12]))
		length := int(binary.BigEndian.Uint32(rec[12:16]))
		if start+length > len(data) {
			return nil, errBadCollection
		}
		binary.BigEndian.PutUint32(rec[8:12], uint32(len(out)))
		out = append(out, data[start:start+length]...)
		for len(out)%4 != 0 {
			out = append(out, 0)
		}
	}
	return out, nil
}

// FontStatus PDF 字体状态
func (e *Exporter) FontStatus() FontStatus {
	return e.fonts.Status()
}
