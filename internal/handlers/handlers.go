package handlers

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	BillingHandler      *BillingHandler
	ChatHandler         *ChatHandler
	NotificationHandler *NotificationHandler
	WalletHandler       *WalletHandler
	ReferralHandler     *ReferralHandler
}
