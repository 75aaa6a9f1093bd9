package ticker

// Record 单个交易对的行情快照。
// 数值字段全部以字符串保存，原样透传，不做格式化。
// 字段声明顺序即 JSON 输出顺序。
type Record struct {
	Symbol             string `json:"symbol" yaml:"symbol"`
	LastPrice          string `json:"lastPrice" yaml:"lastPrice"`
	High               string `json:"high" yaml:"high"`
	Volume             string `json:"volume" yaml:"volume"`
	PriceChangePercent string `json:"priceChangePercent" yaml:"priceChangePercent"`
}

// Reference 返回内置的参考行情数据（每次返回新切片）。
func Reference() []Record {
	return []Record{
		{Symbol: "BTCUSDT", LastPrice: "49250.00", High: "50000.00", Volume: "1200.50", PriceChangePercent: "1.25"},
		{Symbol: "ETHUSDT", LastPrice: "3200.00", High: "3300.00", Volume: "850.75", PriceChangePercent: "-0.85"},
		{Symbol: "BNBUSDT", LastPrice: "410.50", High: "420.00", Volume: "500.30", PriceChangePercent: "0.50"},
	}
}
