package atm

import (
	"fmt"
	"math"
	"time"

	"github.com/mcncl/jsonlite/internal/errors"
	"github.com/mcncl/jsonlite/internal/jsonlite"
)

// Field names used for each account record in the data file
const (
	keyUserID  = "userId"
	keyPIN     = "pin"
	keyName    = "name"
	keyBalance = "balance"
	keyHistory = "transactionHistory"
)

// TimestampLayout prefixes every history entry
const TimestampLayout = "2006-01-02 15:04:05"

// Account is a single customer account
type Account struct {
	UserID  string
	PIN     string
	Name    string
	Balance float64
	History []string
}

func (a *Account) clone() Account {
	c := *a
	c.History = append([]string(nil), a.History...)
	return c
}

func (a *Account) record(now time.Time, event string) {
	a.History = append(a.History, now.Format(TimestampLayout)+" - "+event)
}

func (a *Account) deposit(now time.Time, amount float64) {
	a.Balance += amount
	a.record(now, fmt.Sprintf("Deposit: +$%s | Balance: $%s", money(amount), money(a.Balance)))
}

func (a *Account) withdraw(now time.Time, amount float64) error {
	if amount > a.Balance {
		return errors.ErrInsufficientFunds
	}
	a.Balance -= amount
	a.record(now, fmt.Sprintf("Withdrawal: -$%s | Balance: $%s", money(amount), money(a.Balance)))
	return nil
}

func (a *Account) transferTo(now time.Time, recipient *Account, amount float64) error {
	if amount > a.Balance {
		return errors.ErrInsufficientFunds
	}
	a.Balance -= amount
	recipient.deposit(now, amount)
	a.record(now, fmt.Sprintf("Transfer: -$%s to %s | Balance: $%s", money(amount), recipient.Name, money(a.Balance)))
	return nil
}

// toObject renders the account as a data file record
func (a *Account) toObject() *jsonlite.Object {
	return jsonlite.NewObject().
		Set(keyUserID, jsonlite.Text(a.UserID)).
		Set(keyPIN, jsonlite.Text(a.PIN)).
		Set(keyName, jsonlite.Text(a.Name)).
		Set(keyBalance, jsonlite.Float(a.Balance)).
		Set(keyHistory, jsonlite.ArrayOf(jsonlite.TextArray(a.History)))
}

// accountFromObject reads a data file record. Only the user ID is required;
// other fields default to their zero values.
func accountFromObject(obj *jsonlite.Object) (*Account, error) {
	id, ok := obj.GetText(keyUserID)
	if !ok || id == "" {
		return nil, fmt.Errorf("record has no %s", keyUserID)
	}
	a := &Account{UserID: id}
	a.PIN, _ = obj.GetText(keyPIN)
	a.Name, _ = obj.GetText(keyName)

	if v, ok := obj.Get(keyBalance); ok {
		balance, err := v.AsFloat()
		if err != nil {
			return nil, fmt.Errorf("account %s has an invalid balance %q", id, v.String())
		}
		a.Balance = balance
	}

	if history, ok := obj.GetArray(keyHistory); ok {
		a.History = history.Texts()
	}
	return a, nil
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

func money(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
