// Package ticker holds the static ticker snapshot list served by the API.
package ticker

import "errors"

// Provider 持有启动时构造的不可变行情序列。
// 构造完成后不再修改，并发读无需加锁。
type Provider struct {
	records []Record
}

// NewProvider 校验并复制 records。空列表或非法记录返回 InitializationError。
func NewProvider(records []Record) (*Provider, error) {
	if records == nil {
		return nil, initErr("provider", errors.New("ticker records not initialized"))
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Provider{records: cp}, nil
}

// ListTickers 返回完整、按初始化顺序排列的行情序列副本。
func (p *Provider) ListTickers() []Record {
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// Len 配置的行情条数。
func (p *Provider) Len() int {
	return len(p.records)
}
