package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"rent_tracker/internal/models"
	"rent_tracker/pkg/utils"
)

const timeFormat = "2006-01-02 15:04:05"

// Engine owns the expense/share ledger. Every operation that writes more than
// one row runs inside a single transaction: either everything persists or
// nothing does.
type Engine struct {
	db *sql.DB
}

func New(db *sql.DB) *Engine {
	return &Engine{db: db}
}

type CreateExpenseParams struct {
	GroupID     int
	Title       string
	TotalAmount decimal.Decimal
	Category    string
	PaidBy      *int
}

type CreateExpenseResult struct {
	ExpenseID   int64           `json:"expense_id"`
	ShareAmount decimal.Decimal `json:"share_amount"`
	MemberCount int             `json:"member_count"`
}

// CreateExpense inserts the expense and one unpaid share per current group
// member, splitting the total evenly. The membership list is a snapshot: later
// joins or removals do not touch shares created here.
func (e *Engine) CreateExpense(ctx context.Context, p CreateExpenseParams) (*CreateExpenseResult, error) {
	if p.GroupID <= 0 || p.Title == "" {
		return nil, fmt.Errorf("%w: group_id and title are required", ErrValidation)
	}
	if p.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total_amount must be greater than 0", ErrValidation)
	}

	var exists bool
	err := e.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM `groups` WHERE id = ?)", p.GroupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to verify group: %v", ErrStorage, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: group %d", ErrNotFound, p.GroupID)
	}

	if p.PaidBy != nil {
		var isMember bool
		err = e.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", p.GroupID, *p.PaidBy).Scan(&isMember)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to verify payer membership: %v", ErrStorage, err)
		}
		if !isMember {
			return nil, fmt.Errorf("%w: paid_by user %d is not a member of group %d", ErrValidation, *p.PaidBy, p.GroupID)
		}
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start transaction: %v", ErrStorage, err)
	}

	var paidBy sql.NullInt64
	if p.PaidBy != nil {
		paidBy = sql.NullInt64{Int64: int64(*p.PaidBy), Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (group_id, title, total_amount, category, created_at, paid_by) VALUES (?, ?, ?, ?, ?, ?)",
		p.GroupID, p.Title, p.TotalAmount, p.Category, time.Now().Format(timeFormat), paidBy)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: failed to insert expense: %v", ErrStorage, err)
	}

	expenseID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: failed to get expense id: %v", ErrStorage, err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT user_id FROM group_members WHERE group_id = ?", p.GroupID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: failed to fetch group members: %v", ErrStorage, err)
	}

	var memberIDs []int
	for rows.Next() {
		var memberID int
		if err := rows.Scan(&memberID); err != nil {
			rows.Close()
			tx.Rollback()
			return nil, fmt.Errorf("%w: failed to scan member: %v", ErrStorage, err)
		}
		memberIDs = append(memberIDs, memberID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		tx.Rollback()
		return nil, fmt.Errorf("%w: failed to read members: %v", ErrStorage, err)
	}
	rows.Close()

	if len(memberIDs) == 0 {
		tx.Rollback()
		return nil, ErrNoMembers
	}

	share, err := EqualSplit(p.TotalAmount, len(memberIDs))
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO expense_shares (expense_id, user_id, share_amount, status) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: failed to prepare share insert: %v", ErrStorage, err)
	}
	defer stmt.Close()

	for _, memberID := range memberIDs {
		if _, err := stmt.ExecContext(ctx, expenseID, memberID, share, models.ShareUnpaid); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("%w: failed to insert share for user %d: %v", ErrStorage, memberID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit transaction: %v", ErrStorage, err)
	}

	utils.Logger.Infof("Expense %d created in group %d, split %s across %d members", expenseID, p.GroupID, share, len(memberIDs))

	return &CreateExpenseResult{
		ExpenseID:   expenseID,
		ShareAmount: share,
		MemberCount: len(memberIDs),
	}, nil
}

type ShareDetail struct {
	UserID      int             `json:"user_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	ShareAmount decimal.Decimal `json:"share_amount"`
	Status      string          `json:"status"`
}

type ExpenseDetail struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Category    string          `json:"category,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	PaidBy      string          `json:"paid_by,omitempty"`
	Shares      []ShareDetail   `json:"shares"`
}

// ListExpenses returns the group's expenses with payer name and per-member
// share status. A group with no expenses yields an empty slice, not an error.
func (e *Engine) ListExpenses(ctx context.Context, groupID int) ([]ExpenseDetail, error) {
	query := `
		SELECT e.id, e.title, e.total_amount, e.category, e.created_at, COALESCE(u.name, '')
		FROM expenses e
		LEFT JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = ?
		ORDER BY e.created_at DESC, e.id DESC
	`
	rows, err := e.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve expenses: %v", ErrStorage, err)
	}
	defer rows.Close()

	expenses := []ExpenseDetail{}
	for rows.Next() {
		var exp ExpenseDetail
		var category, createdAt sql.NullString
		if err := rows.Scan(&exp.ID, &exp.Title, &exp.TotalAmount, &category, &createdAt, &exp.PaidBy); err != nil {
			return nil, fmt.Errorf("%w: failed to scan expense: %v", ErrStorage, err)
		}
		exp.Category = category.String
		exp.CreatedAt = createdAt.String
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read expenses: %v", ErrStorage, err)
	}

	shareQuery := `
		SELECT s.user_id, u.name, u.email, s.share_amount, s.status
		FROM expense_shares s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = ?
	`
	for i := range expenses {
		shareRows, err := e.db.QueryContext(ctx, shareQuery, expenses[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to retrieve shares: %v", ErrStorage, err)
		}

		shares := []ShareDetail{}
		for shareRows.Next() {
			var s ShareDetail
			if err := shareRows.Scan(&s.UserID, &s.Name, &s.Email, &s.ShareAmount, &s.Status); err != nil {
				shareRows.Close()
				return nil, fmt.Errorf("%w: failed to scan share: %v", ErrStorage, err)
			}
			shares = append(shares, s)
		}
		if err := shareRows.Err(); err != nil {
			shareRows.Close()
			return nil, fmt.Errorf("%w: failed to read shares: %v", ErrStorage, err)
		}
		shareRows.Close()
		expenses[i].Shares = shares
	}

	return expenses, nil
}

// MarkSharePaid transitions the (expense, user) share to paid. The transition
// is one-directional; marking an already-paid share again is a no-op.
func (e *Engine) MarkSharePaid(ctx context.Context, expenseID, userID int) error {
	var status string
	err := e.db.QueryRowContext(ctx, "SELECT status FROM expense_shares WHERE expense_id = ? AND user_id = ?", expenseID, userID).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: share for expense %d and user %d", ErrNotFound, expenseID, userID)
		}
		return fmt.Errorf("%w: failed to retrieve share: %v", ErrStorage, err)
	}

	if status == models.SharePaid {
		return nil
	}

	_, err = e.db.ExecContext(ctx, "UPDATE expense_shares SET status = ? WHERE expense_id = ? AND user_id = ?", models.SharePaid, expenseID, userID)
	if err != nil {
		return fmt.Errorf("%w: failed to update share status: %v", ErrStorage, err)
	}
	return nil
}

// DeleteExpense removes the expense and all its shares in one transaction.
func (e *Engine) DeleteExpense(ctx context.Context, expenseID int) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to start transaction: %v", ErrStorage, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expenseID); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to delete shares: %v", ErrStorage, err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to delete expense: %v", ErrStorage, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to read rows affected: %v", ErrStorage, err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: expense %d", ErrNotFound, expenseID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", ErrStorage, err)
	}
	return nil
}

// RemoveMemberCascade removes a member from a group together with every
// expense they fronted and every share they hold in the group, as one atomic
// unit. Only the group's admin may remove members; groups.admin_id is
// authoritative, the member role column is never consulted.
func (e *Engine) RemoveMemberCascade(ctx context.Context, groupID, userID, requesterID int) error {
	var adminID int
	err := e.db.QueryRowContext(ctx, "SELECT admin_id FROM `groups` WHERE id = ?", groupID).Scan(&adminID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: group %d", ErrNotFound, groupID)
		}
		return fmt.Errorf("%w: failed to retrieve group: %v", ErrStorage, err)
	}

	if adminID != requesterID {
		return fmt.Errorf("%w: only the group admin can remove members", ErrForbidden)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to start transaction: %v", ErrStorage, err)
	}

	// Shares of expenses the leaving member paid for, then those expenses.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM expense_shares
		WHERE expense_id IN (SELECT id FROM expenses WHERE group_id = ? AND paid_by = ?)
	`, groupID, userID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to delete shares of paid expenses: %v", ErrStorage, err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM expenses WHERE group_id = ? AND paid_by = ?", groupID, userID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to delete paid expenses: %v", ErrStorage, err)
	}

	// Remaining shares the member holds in the group's other expenses.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM expense_shares
		WHERE user_id = ? AND expense_id IN (SELECT id FROM expenses WHERE group_id = ?)
	`, userID, groupID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to delete member shares: %v", ErrStorage, err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM group_members WHERE group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to delete membership: %v", ErrStorage, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: failed to read rows affected: %v", ErrStorage, err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: user %d is not a member of group %d", ErrNotFound, userID, groupID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", ErrStorage, err)
	}

	utils.Logger.Infof("Member %d removed from group %d with expense cascade", userID, groupID)
	return nil
}
