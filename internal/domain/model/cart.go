package model

// 税率10%固定。税抜単価は floor(税込 / 1.1) = 税込*10/11（整数演算で誤差なし）。
const (
	taxNum int64 = 10
	taxDen int64 = 11
)

// ExclusiveUnit は税込単価から税抜単価を求める。
func ExclusiveUnit(inclusivePrice int64) int64 {
	if inclusivePrice <= 0 {
		return 0
	}
	return inclusivePrice * taxNum / taxDen
}

// CartLine はカートの明細。同一商品IDの明細は常に1つ。
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

// Cart は購入予定の明細リスト（追加順を保持）。
// 合計金額は常に明細から導出し、別フィールドには持たない。
type Cart struct {
	Lines []CartLine
}

// Merge は商品をカートへ取り込む。
// 既存明細があれば数量+1、無ければ末尾に数量1で追加。
func (c *Cart) Merge(p Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
}

// Adjust は数量を±1する。
// -1で数量0になる明細は削除。該当商品が無ければ何もしない。
func (c *Cart) Adjust(productID int64, delta int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		q := c.Lines[i].Quantity + delta
		if q <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
		c.Lines[i].Quantity = q
		return
	}
}

// Remove は数量に関係なく明細を削除する。
func (c *Cart) Remove(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// IsEmpty は明細が無いかどうか。
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalInclusive は税込合計 Σ(税込単価×数量)。
func (c Cart) TotalInclusive() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Price * l.Quantity
	}
	return total
}

// TotalExclusive は税抜合計。
// 明細ごとに税抜単価へ切り捨ててから数量を掛ける（floor(合計/1.1)ではない）。
func (c Cart) TotalExclusive() int64 {
	var total int64
	for _, l := range c.Lines {
		total += ExclusiveUnit(l.Price) * l.Quantity
	}
	return total
}

// Tax は表示用の消費税額。必ず 税込合計 − 税抜合計 で求め、
// 3つの数字が常に一致するようにする。
func (c Cart) Tax() int64 {
	return c.TotalInclusive() - c.TotalExclusive()
}
