package issue

// Kind identifies a troubleshooting scenario.
type Kind string

const (
	Login    Kind = "login_issues"
	Transfer Kind = "transfer_issues"
	App      Kind = "app_issues"
	Card     Kind = "card_issues"
	General  Kind = "general"
)

// Profile is a static troubleshooting template.
type Profile struct {
	Kind       Kind
	Title      string
	Symptoms   []string
	Solutions  []string
	Escalation string
}

// Ordered lists the kinds checked during issue identification, in match order.
// General is the fallback and never matched by symptom.
func Ordered() []Kind {
	return []Kind{Login, Transfer, App, Card}
}

// NeedsTransactions reports whether the issue warrants a look at recent activity.
func (k Kind) NeedsTransactions() bool {
	return k == Transfer || k == Card
}

// Profile returns the immutable template for the kind.
func (k Kind) Profile() Profile {
	switch k {
	case Login:
		return Profile{
			Kind:     Login,
			Title:    "Login Issues",
			Symptoms: []string{"can't sign in", "unable to log in", "login not working", "password not accepted"},
			Solutions: []string{
				"Reset your password through the 'Forgot Password' link on the login page",
				"Ensure you're using the correct email address associated with your account",
				"Check if Caps Lock is enabled when typing your password",
				"Clear your browser cache and cookies, then try again",
				"Try using a different browser or device",
				"Ensure your account hasn't been locked due to multiple failed login attempts",
			},
			Escalation: "If you've tried these steps and still can't log in, please contact our support team with your account email for further assistance.",
		}
	case Transfer:
		return Profile{
			Kind:     Transfer,
			Title:    "Transfer Issues",
			Symptoms: []string{"can't make transfers", "transfer failed", "payment not going through", "transaction error"},
			Solutions: []string{
				"Check your account balance to ensure you have sufficient funds",
				"Verify that your account status is active and not restricted",
				"Ensure you're entering the correct recipient information",
				"Check if you've reached your daily or monthly transfer limits",
				"Try making a smaller transfer to see if the issue is amount-related",
				"Ensure your internet connection is stable when making the transfer",
			},
			Escalation: "If transfers are still failing after these steps, please contact our support team with the specific error message or transaction ID for assistance.",
		}
	case App:
		return Profile{
			Kind:     App,
			Title:    "Mobile App Issues",
			Symptoms: []string{"app crashing", "app not loading", "features not working", "app error"},
			Solutions: []string{
				"Update to the latest version of the app from your device's app store",
				"Restart your device and try opening the app again",
				"Check your internet connection and ensure it's stable",
				"Clear the app cache in your device settings",
				"Uninstall and reinstall the app",
				"Ensure your device meets the minimum requirements for the app",
			},
			Escalation: "If you're still experiencing issues with the app, please contact our support team with your device model and operating system version for further assistance.",
		}
	case Card:
		return Profile{
			Kind:     Card,
			Title:    "Card Issues",
			Symptoms: []string{"card declined", "card not working", "payment failed", "card blocked"},
			Solutions: []string{
				"Check your card balance to ensure you have sufficient funds",
				"Verify that your card is activated and not expired",
				"Ensure you're entering the correct card details for online purchases",
				"Check if international transactions are enabled for your card",
				"Temporarily lock and unlock your card through the app",
				"Check if the merchant accepts your card type",
			},
			Escalation: "If your card is still not working after these steps, please contact our support team for immediate assistance.",
		}
	default:
		return Profile{
			Kind:  General,
			Title: "General Issue",
			Solutions: []string{
				"Please provide more details about the specific issue you're experiencing",
				"Check our help center for guides on common issues",
				"Ensure your app and device are updated to the latest versions",
				"Try restarting your device and the app",
			},
			Escalation: "If you need immediate assistance, please contact our support team with details of your issue.",
		}
	}
}
