// Benchmark driver for the matching engine: floods one pair with random
// limit orders and reports throughput.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/book"
	"github.com/havelock/pairbook/pkg/engine"
	"github.com/havelock/pairbook/pkg/ledger"
)

const (
	numOrders = 1_000_000
	minPrice  = 100_000
	maxPrice  = 200_000
	tick      = 100
	minQty    = 1
	maxQty    = 100
)

var accounts = []string{"alice", "bob", "carol", "dave"}

func main() {
	rand.Seed(time.Now().UnixNano())

	memLedger := ledger.NewMemLedger()
	funding := decimal.New(1, 30)
	for _, acc := range accounts {
		memLedger.Deposit(acc, funding, funding)
	}

	eng := engine.New(memLedger)

	totalFills := 0
	totalQty := decimal.Zero

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		side := book.Bid
		if rand.Intn(2) == 0 {
			side = book.Ask
		}
		price := int64(minPrice + rand.Intn((maxPrice-minPrice)/tick)*tick)
		qty := decimal.NewFromInt(int64(rand.Intn(maxQty-minQty+1) + minQty))
		owner := accounts[rand.Intn(len(accounts))]

		report, err := eng.Submit(side, price, qty, owner)
		if err != nil {
			fmt.Printf("submit failed at order %d: %v\n", i, err)
			return
		}
		totalFills += len(report.Legs)
		totalQty = totalQty.Add(report.Filled)
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("orders      : %d\n", numOrders)
	fmt.Printf("fills       : %d\n", totalFills)
	fmt.Printf("matched qty : %s\n", totalQty)
	fmt.Printf("elapsed     : %s\n", elapsed)
	fmt.Printf("orders/sec  : %.0f\n", float64(numOrders)/elapsed.Seconds())
	fmt.Printf("resting     : %d bid / %d ask\n",
		eng.RestingOrders(book.Bid), eng.RestingOrders(book.Ask))
}
