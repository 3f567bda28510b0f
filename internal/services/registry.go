package services

// ServiceContainer bundles every service so wiring and handler construction
// stay in one place.
type ServiceContainer struct {
	Auth          AuthService
	Billings      BillingService
	Chat          ChatService
	Notifications NotificationService
	Wallets       WalletService
	Referrals     ReferralService
	Emails        *EmailService
}
