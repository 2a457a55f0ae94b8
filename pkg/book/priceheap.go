package book

import "sort"

// priceHeap implements heap.Interface over the distinct price ticks of one
// book side. Unlike a plain heap it tracks each price's slot so a price can
// be removed from anywhere in O(log L), which the cancel path needs to drop
// a level that empties away from the top. The heap therefore never holds a
// stale price and Peek is always exact.
type priceHeap struct {
	prices []int64
	less   func(i, j int64) bool
	pos    map[int64]int
}

func newPriceHeap(less func(i, j int64) bool) *priceHeap {
	return &priceHeap{
		less: less,
		pos:  make(map[int64]int),
	}
}

func (h *priceHeap) Len() int {
	return len(h.prices)
}

func (h *priceHeap) Less(i, j int) bool {
	return h.less(h.prices[i], h.prices[j])
}

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
	h.pos[h.prices[i]] = i
	h.pos[h.prices[j]] = j
}

func (h *priceHeap) Push(x any) {
	price := x.(int64)
	if _, ok := h.pos[price]; ok {
		return
	}
	h.pos[price] = len(h.prices)
	h.prices = append(h.prices, price)
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.pos, price)
	return price
}

func (h *priceHeap) Peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

func (h *priceHeap) index(price int64) (int, bool) {
	i, ok := h.pos[price]
	return i, ok
}

// sorted returns every price best-first. The heap array itself is only
// partially ordered, so enumeration sorts a copy.
func (h *priceHeap) sorted() []int64 {
	out := make([]int64, len(h.prices))
	copy(out, h.prices)
	sort.Slice(out, func(i, j int) bool { return h.less(out[i], out[j]) })
	return out
}
