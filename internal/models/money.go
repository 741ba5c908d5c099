package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// minorUnitExp 最小货币单位与主单位之间的指数（1 leu = 100 bani）
const minorUnitExp = -2

// Money 统一金额类型（保留 2 位小数），仅用于对外展示
type Money struct {
	decimal.Decimal
}

// NewMoneyFromMinor 从最小货币单位创建金额
func NewMoneyFromMinor(amount int64) Money {
	return Money{Decimal: decimal.New(amount, minorUnitExp)}
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// Minor 转换为最小货币单位
func (m Money) Minor() int64 {
	return m.Decimal.Shift(-minorUnitExp).Round(0).IntPart()
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串或数字）
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d.Round(2)
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}
