package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Loader はディレクトリ内のスクリプト定義ファイルを読み込む
type Loader struct {
	dir string
}

// NewLoader Loaderを作成
func NewLoader(dir string) *Loader {
	return &Loader{
		dir: dir,
	}
}

// LoadAll loads every .toml definition under the directory and returns
// them keyed by definition name. A file without a name is keyed by its
// base name without extension.
func (l *Loader) LoadAll() (map[string]*Definition, error) {
	files, err := l.findDefinitionFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to find definition files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no definition files found in %s", l.dir)
	}

	defs := make(map[string]*Definition, len(files))
	for _, path := range files {
		def, err := l.Load(path)
		if err != nil {
			return nil, err
		}
		if _, dup := defs[def.Name]; dup {
			return nil, fmt.Errorf("duplicate definition %q in %s", def.Name, path)
		}
		defs[def.Name] = def
	}

	return defs, nil
}

// Load reads a single definition file. Shift-JIS encoded files are
// converted to UTF-8 before parsing.
func (l *Loader) Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		data, err = convertShiftJISToUTF8(data)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to convert encoding: %w", path, err)
		}
	}

	def, err := ParseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		base := filepath.Base(path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

// findDefinitionFiles .tomlファイルを検出（case-insensitive）
func (l *Loader) findDefinitionFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if strings.EqualFold(filepath.Ext(path), ".toml") {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// convertShiftJISToUTF8 Shift-JISからUTF-8に変換
func convertShiftJISToUTF8(data []byte) ([]byte, error) {
	reader := transform.NewReader(strings.NewReader(string(data)), japanese.ShiftJIS.NewDecoder())

	utf8Data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Shift-JIS: %w", err)
	}

	return utf8Data, nil
}
