// Test FIX initiator: logs on to the gateway and sends a crossing pair of
// limit orders on GLD-ETH.
package main

import (
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/shopspring/decimal"
)

const symbol = "GLD-ETH"

type initiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *initiatorApp) OnCreate(sessionID quickfix.SessionID) {
	a.sessionID = &sessionID
}

func (a *initiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("logon success", sessionID)
	sendCrossingOrders(sessionID)
}

func (a *initiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *initiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *initiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *initiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *initiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	log.Println("execution report:", msg)
	return nil
}

func sendCrossingOrders(sessionID quickfix.SessionID) {
	sell := fix44nos.New(
		field.NewClOrdID(randSeq(17)),
		field.NewSide(enum.Side_SELL),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT))
	sell.SetSymbol(symbol)
	sell.SetAccount("bob")
	sell.SetPrice(decimal.NewFromInt(250_000), 0)
	sell.SetOrderQty(decimal.RequireFromString("100000000000000000000"), 0)
	sell.SetSenderCompID(sessionID.SenderCompID)
	sell.SetTargetCompID(sessionID.TargetCompID)
	if err := quickfix.Send(sell); err != nil {
		log.Println("send sell:", err)
	}

	buy := fix44nos.New(
		field.NewClOrdID(randSeq(17)),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT))
	buy.SetSymbol(symbol)
	buy.SetAccount("alice")
	buy.SetPrice(decimal.NewFromInt(270_000), 0)
	buy.SetOrderQty(decimal.RequireFromString("1000000000000000000"), 0)
	buy.SetSenderCompID(sessionID.SenderCompID)
	buy.SetTargetCompID(sessionID.TargetCompID)
	if err := quickfix.Send(buy); err != nil {
		log.Println("send buy:", err)
	}
}

func main() {
	cfgPath := os.Args[1]
	app := &initiatorApp{}

	cfg, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Close() // nolint

	settings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	logFactory, _ := file.NewLogFactory(settings)
	initiator, err := quickfix.NewInitiator(app, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		log.Fatal(err)
	}
	if err := initiator.Start(); err != nil {
		log.Fatal(err)
	}
	log.Println("initiator started")
	select {}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
