package market

import "errors"

var (
	errDuplicateOrder     = errors.New("duplicate order")
	errOrderIDNotFound    = errors.New("orderID not found")
	errGatewayIDNotFound  = errors.New("gatewayID not found")
	errInvalidOrderStatus = errors.New("invalid order status")
	errUnknownSide        = errors.New("unknown order side")
	errSymbolMismatch     = errors.New("order symbol does not match market")
)
