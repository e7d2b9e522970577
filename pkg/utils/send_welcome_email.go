package utils

import (
	"fmt"
	"time"
)

func SendWelcomeEmail(to, name string) error {
	subject := "Welcome to Rent Tracker 🏠"

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Welcome</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border-top: 5px solid #0a4d3c; }
		.header { background-color: #0a4d3c; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; font-size: 14px; line-height: 1.6; color: #444; }
		.footer { background: #f6f6f6; text-align: center; padding: 14px; font-size: 12px; color: #777; }
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Welcome aboard 🎉</h1></div>
			<div class="content">
				<p>Hi %s,<br><br>
				Your <b>Rent Tracker</b> account is ready. Create a group, invite your
				housemates, and start splitting expenses evenly — we keep track of who
				has paid and who still owes.</p>
				<p>Happy sharing!</p>
			</div>
			<div class="footer">&copy; %d Rent Tracker — Split fair, stay friends.</div>
		</div>
	</body>
	</html>
	`, name, time.Now().Year())

	return SendEmail(to, subject, body)
}
