package atm

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mcncl/jsonlite/internal/ctxlog"
	"github.com/mcncl/jsonlite/internal/errors"
	"github.com/mcncl/jsonlite/internal/jsonlite"
	"github.com/mcncl/jsonlite/internal/parser"
)

// Top-level keys of the data file
const (
	keyAccounts    = "accounts"
	keyLastUpdated = "lastUpdated"
)

const (
	idPrefix = "USER"
	idMin    = 1000
	idSpan   = 9000
)

// Store owns the set of accounts backed by a single data file. Accounts are
// read with Load and written with Save; nothing is persisted implicitly.
// A Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	path     string
	indent   int
	strict   bool
	accounts map[string]*Account
	now      func() time.Time
	rng      *rand.Rand
	logger   *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithIndent sets the indent used when saving
func WithIndent(indent int) Option {
	return func(s *Store) { s.indent = indent }
}

// WithStrict makes Load fail on malformed data instead of skipping it
func WithStrict(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithLogger sets the logger for load, save and reload events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the time source used for history entries and lastUpdated
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRand sets the random source used for user IDs and PINs
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// NewStore creates an empty store for path without touching the file
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		indent:   4,
		accounts: make(map[string]*Account),
		now:      time.Now,
		logger:   ctxlog.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	return s
}

// Open creates a store for path and loads it
func Open(path string, opts ...Option) (*Store, error) {
	s := NewStore(path, opts...)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the data file location
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory accounts with the contents of the data file.
// A missing or empty file yields an empty store. A file whose top level is
// truncated, unbalanced or has no accounts array is refused in every mode
// and the current accounts are kept. In lenient mode individual records that
// cannot be read are skipped with a warning; in strict mode they fail the
// load.
func (s *Store) Load() error {
	result, err := parser.ParseFile(s.path, parser.Options{Strict: s.strict, Logger: s.logger})
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrFileNotFound):
			s.logger.Info("no existing data found, starting fresh", "path", s.path)
			s.replace(map[string]*Account{})
			return nil
		case stderrors.Is(err, errors.ErrFileEmpty), stderrors.Is(err, errors.ErrEmptyInput):
			s.logger.Warn("data file is empty, starting fresh", "path", s.path)
			s.replace(map[string]*Account{})
			return nil
		default:
			return errors.NewStoreError(fmt.Sprintf("failed to load '%s'", s.path), err)
		}
	}

	if err := unusable(result); err != nil {
		return errors.NewStoreError(fmt.Sprintf("refusing to load '%s'", s.path), err)
	}
	accounts, err := s.decode(result.Object)
	if err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to load '%s'", s.path), err)
	}
	s.replace(accounts)
	s.logger.Info("data loaded", "path", s.path, "accounts", len(accounts))
	return nil
}

func (s *Store) decode(root *jsonlite.Object) (map[string]*Account, error) {
	accounts := make(map[string]*Account)

	records, ok := root.GetArray(keyAccounts)
	if !ok {
		return nil, fmt.Errorf("%w: missing '%s' array", errors.ErrMalformed, keyAccounts)
	}

	for i, v := range records.Values() {
		obj, ok := v.AsObject()
		if !ok {
			if s.strict {
				return nil, fmt.Errorf("%w: %s[%d] is a %s", errors.ErrMalformed, keyAccounts, i, v.Kind())
			}
			s.logger.Warn("skipping account record", "index", i, "reason", "not an object")
			continue
		}
		account, err := accountFromObject(obj)
		if err != nil {
			if s.strict {
				return nil, fmt.Errorf("%w: %s[%d]: %v", errors.ErrMalformed, keyAccounts, i, err)
			}
			s.logger.Warn("skipping account record", "index", i, "reason", err.Error())
			continue
		}
		accounts[account.UserID] = account
	}
	return accounts, nil
}

// unusable reports top-level damage. Saving over such a file would drop
// every account it still holds.
func unusable(result jsonlite.Result) error {
	for _, a := range result.Anomalies {
		if a.Path != "" {
			continue
		}
		if a.Kind == jsonlite.AnomalyNotObject || a.Kind == jsonlite.AnomalyUnbalanced {
			return fmt.Errorf("%w: %s", errors.ErrMalformed, a)
		}
	}
	return nil
}

func (s *Store) replace(accounts map[string]*Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
}

// Save writes every account, ordered by user ID, to the data file. The file
// is replaced atomically so readers never observe a partial write.
func (s *Store) Save() error {
	s.mu.Lock()
	doc := s.document()
	count := len(s.accounts)
	s.mu.Unlock()

	data := doc.Render(s.indent)
	if err := writeFileAtomic(s.path, []byte(data)); err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to save '%s'", s.path), err)
	}
	s.logger.Info("data saved", "path", s.path, "accounts", count)
	return nil
}

// document builds the data file object. Callers hold s.mu.
func (s *Store) document() *jsonlite.Object {
	records := jsonlite.NewArray()
	for _, id := range s.sortedIDs() {
		records.Append(jsonlite.ObjectOf(s.accounts[id].toObject()))
	}
	return jsonlite.NewObject().
		Set(keyAccounts, jsonlite.ArrayOf(records)).
		Set(keyLastUpdated, jsonlite.Text(s.now().Format(TimestampLayout)))
}

func (s *Store) sortedIDs() []string {
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Len returns the number of accounts
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// Accounts returns a snapshot of every account ordered by user ID
func (s *Store) Accounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Account, 0, len(s.accounts))
	for _, id := range s.sortedIDs() {
		out = append(out, s.accounts[id].clone())
	}
	return out
}

// Account returns a snapshot of one account
func (s *Store) Account(userID string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[userID]
	if !ok {
		return Account{}, errors.NewAccountError(fmt.Sprintf("no account '%s'", userID), errors.ErrAccountNotFound)
	}
	return a.clone(), nil
}

// CreateAccount opens a new account with a generated user ID and PIN
func (s *Store) CreateAccount(name string, initialBalance float64) (Account, error) {
	if name == "" {
		return Account{}, errors.NewAccountError("account name is required", nil)
	}
	if initialBalance < 0 || math.IsNaN(initialBalance) || math.IsInf(initialBalance, 0) {
		return Account{}, errors.NewAccountError("invalid initial balance", errors.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.accounts) >= idSpan {
		return Account{}, errors.NewAccountError("no free user IDs left", nil)
	}
	var id string
	for {
		id = fmt.Sprintf("%s%d", idPrefix, idMin+s.rng.Intn(idSpan))
		if _, taken := s.accounts[id]; !taken {
			break
		}
	}

	a := &Account{
		UserID:  id,
		PIN:     fmt.Sprintf("%04d", s.rng.Intn(10000)),
		Name:    name,
		Balance: initialBalance,
	}
	a.record(s.now(), "Account created with initial balance: $"+money(initialBalance))
	s.accounts[id] = a
	s.logger.Info("account created", "user_id", id)
	return a.clone(), nil
}

// Authenticate returns the account when userID and pin match
func (s *Store) Authenticate(userID, pin string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.authenticate(userID, pin)
	if err != nil {
		return Account{}, err
	}
	return a.clone(), nil
}

// authenticate checks credentials. Callers hold s.mu.
func (s *Store) authenticate(userID, pin string) (*Account, error) {
	a, ok := s.accounts[userID]
	if !ok || a.PIN != pin {
		s.logger.Warn("authentication failed", "user_id", userID)
		return nil, errors.NewAccountError("authentication failed", errors.ErrInvalidCredentials)
	}
	return a, nil
}

// Deposit adds amount to the authenticated account
func (s *Store) Deposit(userID, pin string, amount float64) (Account, error) {
	if !validAmount(amount) {
		return Account{}, errors.NewAccountError("deposit refused", errors.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.authenticate(userID, pin)
	if err != nil {
		return Account{}, err
	}
	a.deposit(s.now(), amount)
	s.logger.Info("deposit", "user_id", userID, "amount", amount)
	return a.clone(), nil
}

// Withdraw takes amount from the authenticated account
func (s *Store) Withdraw(userID, pin string, amount float64) (Account, error) {
	if !validAmount(amount) {
		return Account{}, errors.NewAccountError("withdrawal refused", errors.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.authenticate(userID, pin)
	if err != nil {
		return Account{}, err
	}
	if err := a.withdraw(s.now(), amount); err != nil {
		return Account{}, errors.NewAccountError("withdrawal refused", err)
	}
	s.logger.Info("withdrawal", "user_id", userID, "amount", amount)
	return a.clone(), nil
}

// Transfer moves amount from the authenticated account to recipientID
func (s *Store) Transfer(userID, pin, recipientID string, amount float64) (Account, error) {
	if !validAmount(amount) {
		return Account{}, errors.NewAccountError("transfer refused", errors.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.authenticate(userID, pin)
	if err != nil {
		return Account{}, err
	}
	if recipientID == userID {
		return Account{}, errors.NewAccountError("cannot transfer to the same account", nil)
	}
	recipient, ok := s.accounts[recipientID]
	if !ok {
		return Account{}, errors.NewAccountError(fmt.Sprintf("no recipient account '%s'", recipientID), errors.ErrAccountNotFound)
	}
	if err := a.transferTo(s.now(), recipient, amount); err != nil {
		return Account{}, errors.NewAccountError("transfer refused", err)
	}
	s.logger.Info("transfer", "user_id", userID, "recipient", recipientID, "amount", amount)
	return a.clone(), nil
}
