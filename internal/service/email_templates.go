package service

import "fmt"

func welcomeEmailTemplate(name, profileURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready.

Add a photo, your certificates and your interests: %s

Best,
The %s Team`, name, profileURL, appName)

	return subject, body
}

func emailChangeNotificationTemplate(name, newEmail, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s email address was changed", appName)
	body := fmt.Sprintf(`Hi %s,

The email address on your account was changed to %s.

If you did not make this change, contact our support team right away.

Best,
The %s Team`, name, newEmail, appName)

	return subject, body
}
