package handlers

// HandlerBundle groups the HTTP handlers so route registration takes a
// single wired dependency.
type HandlerBundle struct {
	Offers   *OfferHandler
	Matching *MatchingHandler
	Payments *PaymentHandler
	Earnings *EarningsHandler
	Tracking *TrackingHandler
	Accounts *AccountHandler
}
