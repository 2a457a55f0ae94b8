package fixgateway

import (
	"errors"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"

	"github.com/havelock/pairbook/pkg/market/model"
)

var errSessionNotFound = errors.New("no session for ClOrdID")

var (
	statusMapping = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
	}

	execTypeMapping = map[model.OrderExecType]enum.ExecType{
		model.ExecTypeNew:      enum.ExecType_NEW,
		model.ExecTypeTrade:    enum.ExecType_TRADE,
		model.ExecTypeCanceled: enum.ExecType_CANCELED,
		model.ExecTypeRejected: enum.ExecType_REJECTED,
	}

	sideMapping = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}
)

// sendExecutionReport converts the service-level order state into a FIX 4.4
// ExecutionReport and sends it to the originating session.
func sendExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	return quickfix.SendToTarget(buildExecutionReport(order), *sessionID)
}

func buildExecutionReport(order model.Order) executionreport.ExecutionReport {
	msg := executionreport.New(
		field.NewOrderID(order.OrderID),
		field.NewExecID(order.ExecID),
		field.NewExecType(execTypeMapping[order.ExecType]),
		field.NewOrdStatus(statusMapping[order.Status]),
		field.NewSide(sideMapping[order.Side]),
		field.NewLeavesQty(order.LeavesQuantity, 0),
		field.NewCumQty(order.CumQuantity, 0),
		field.NewAvgPx(order.AvgPrice, 0),
	)

	msg.SetClOrdID(order.GatewayID)
	if order.OrigGatewayID != "" {
		msg.SetOrigClOrdID(order.OrigGatewayID)
	}
	msg.SetAccount(order.Account)
	msg.SetSymbol(order.Symbol)
	msg.SetOrderQty(order.Quantity, 0)
	msg.SetPrice(decimal.NewFromInt(order.Price), 0)
	msg.SetTransactTime(order.TransactTime)
	msg.SetLastQty(order.LastQuantity, 0)
	msg.SetLastPx(decimal.NewFromInt(order.LastPrice), 0)

	return msg
}
