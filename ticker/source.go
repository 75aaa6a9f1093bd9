package ticker

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

type fileDoc struct {
	Tickers []Record `yaml:"tickers"`
}

// LoadFile 从 YAML 文件读取行情列表并校验。
func LoadFile(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, initErr(path, fmt.Errorf("read ticker file: %w", err))
	}
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, initErr(path, fmt.Errorf("parse yaml: %w", err))
	}
	if err := Validate(doc.Tickers); err != nil {
		return nil, err
	}
	return doc.Tickers, nil
}

// Load 为空路径时返回内置参考数据，否则读取文件。
func Load(path string) ([]Record, error) {
	if path == "" {
		return Reference(), nil
	}
	return LoadFile(path)
}

// Validate 检查行情列表：非空、symbol 合法且唯一、数值字段为合法十进制字符串。
func Validate(records []Record) error {
	if len(records) == 0 {
		return initErr("validate", errors.New("ticker list is empty"))
	}
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if !symbolPattern.MatchString(r.Symbol) {
			return initErr("validate", fmt.Errorf("record %d: invalid symbol %q", i, r.Symbol))
		}
		if j, dup := seen[r.Symbol]; dup {
			return initErr("validate", fmt.Errorf("record %d: symbol %s duplicates record %d", i, r.Symbol, j))
		}
		seen[r.Symbol] = i

		fields := []struct {
			name     string
			value    string
			unsigned bool
		}{
			{"lastPrice", r.LastPrice, true},
			{"high", r.High, true},
			{"volume", r.Volume, true},
			{"priceChangePercent", r.PriceChangePercent, false},
		}
		for _, f := range fields {
			if f.value == "" {
				return initErr("validate", fmt.Errorf("%s %s is empty", r.Symbol, f.name))
			}
			d, err := decimal.NewFromString(f.value)
			if err != nil {
				return initErr("validate", fmt.Errorf("%s %s %q is not a decimal: %w", r.Symbol, f.name, f.value, err))
			}
			if f.unsigned && d.IsNegative() {
				return initErr("validate", fmt.Errorf("%s %s must be >= 0, got %s", r.Symbol, f.name, f.value))
			}
		}
	}
	return nil
}
