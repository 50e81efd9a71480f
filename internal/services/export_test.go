package service

// SetNotificationDispatch replaces the goroutine used for order emails.
func SetNotificationDispatch(s OrderService, dispatch func(func())) {
	s.(*orderService).dispatch = dispatch
}

func SetOrderIDGenerator(s OrderService, gen func() (string, error)) {
	s.(*orderService).newOrderID = gen
}

func SetTxnIDGenerator(s CheckoutService, gen func() (string, error)) {
	s.(*checkoutService).newTxnID = gen
}
