package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"rent_tracker/pkg/utils"
)

// sendReminder is a hook point so tests can run the batch without SMTP.
var sendReminder = utils.SendShareReminderEmail

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight: remind members with unpaid shares
	_, err := c.AddFunc("0 0 * * *", func() {
		if err := SendUnpaidShareReminders(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send share reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule share reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (unpaid share reminders daily at midnight)")
	return c
}

type shareReminder struct {
	email        string
	name         string
	groupName    string
	expenseTitle string
	shareAmount  string
	createdAt    time.Time
}

// SendUnpaidShareReminders mails every member who still has an unpaid share,
// one mail per outstanding expense. The batch is read fully before any mail
// goes out so the cursor is released, and the error channel holds one slot
// per reminder so a worker can always report a failure without blocking.
// Failures are logged, not retried.
func SendUnpaidShareReminders(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT u.email, u.name, g.name, e.title, e.created_at, s.share_amount
		FROM expense_shares s
		JOIN expenses e ON s.expense_id = e.id
		JOIN `+"`groups`"+` g ON e.group_id = g.id
		JOIN users u ON s.user_id = u.id
		WHERE s.status = 'unpaid'
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var reminders []shareReminder
	for rows.Next() {
		var rem shareReminder
		var createdAtRaw sql.NullString

		if err := rows.Scan(&rem.email, &rem.name, &rem.groupName, &rem.expenseTitle, &createdAtRaw, &rem.shareAmount); err != nil {
			utils.Logger.Errorf("Failed to scan unpaid share row: %v", err)
			continue
		}

		rem.createdAt = time.Now()
		if createdAtRaw.Valid {
			if parsed, err := time.Parse("2006-01-02 15:04:05", createdAtRaw.String); err == nil {
				rem.createdAt = parsed
			}
		}

		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating unpaid share rows: %v", err)
		return err
	}
	rows.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, len(reminders))

	for _, rem := range reminders {
		wg.Add(1)
		go func(rem shareReminder) {
			defer wg.Done()

			if err := sendReminder(rem.email, rem.name, rem.shareAmount, rem.groupName, rem.expenseTitle, rem.createdAt); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", rem.email, err)
				return
			}

			utils.Logger.Infof("Sent reminder to %s: %s for '%s' in '%s'", rem.email, rem.shareAmount, rem.expenseTitle, rem.groupName)
		}(rem)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	return nil
}
