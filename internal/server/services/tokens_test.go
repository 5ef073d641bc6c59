package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/dbx"
	"github.com/groupfinal/accounts/internal/server/auth"
	"github.com/groupfinal/accounts/internal/server/config"
	"github.com/groupfinal/accounts/internal/server/models"
	"github.com/groupfinal/accounts/internal/server/repositories/accounts"
	"github.com/groupfinal/accounts/internal/server/repositories/refreshtokens"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTokenService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *TokenService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewTokenService(db, rm, cfg)
}

// fakeRefreshRepo keeps tokens in a map; Consume removes them the way
// DELETE ... RETURNING does.
type fakeRefreshRepo struct {
	tokens map[string]models.RefreshToken

	consumeErr error
	createErr  error

	created  []int64
	consumed []string
}

func newFakeRefreshRepo(seed ...models.RefreshToken) *fakeRefreshRepo {
	r := &fakeRefreshRepo{tokens: make(map[string]models.RefreshToken)}
	for _, t := range seed {
		r.tokens[t.Token] = t
	}
	return r
}

func (f *fakeRefreshRepo) Create(_ context.Context, accountID int64, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = models.RefreshToken{AccountID: accountID, Token: token, Expires: time.Now().Add(validity)}
	f.created = append(f.created, accountID)
	return nil
}

func (f *fakeRefreshRepo) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.tokens, token)
	f.consumed = append(f.consumed, token)
	return &rt, nil
}

type fakeRepoManager struct {
	r *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository           { return nil }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }

func TestIssueTokens(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rr := newFakeRefreshRepo()
	s := newTokenService(t, db, &fakeRepoManager{r: rr})

	pair, err := s.IssueTokens(context.Background(), 42)
	if err != nil {
		t.Fatalf("IssueTokens error: %v", err)
	}
	if len(pair.RefreshToken) != 64 {
		t.Fatalf("refresh token should be 32 random bytes in hex, got %q", pair.RefreshToken)
	}

	id, err := auth.GetAccountIDFromToken(pair.AccessToken, []byte("k"))
	if err != nil || id != 42 {
		t.Fatalf("access token subject: got (%d, %v)", id, err)
	}
	if len(rr.created) != 1 || rr.created[0] != 42 {
		t.Fatalf("refresh token not stored for account: %v", rr.created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no transaction expected: %v", err)
	}
}

func TestIssueTokens_StoreErr(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newTokenService(t, db, &fakeRepoManager{r: &fakeRefreshRepo{tokens: map[string]models.RefreshToken{}, createErr: errBoom}})

	if _, err := s.IssueTokens(context.Background(), 1); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

func liveToken(token string, accountID int64) models.RefreshToken {
	return models.RefreshToken{AccountID: accountID, Token: token, Expires: time.Now().Add(10 * time.Minute)}
}

func TestRefreshToken_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rr := newFakeRefreshRepo(liveToken("refresh-xyz", 7))
	s := newTokenService(t, db, &fakeRepoManager{r: rr})

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.RefreshToken == "refresh-xyz" {
		t.Fatalf("bad tokens: %+v", pair)
	}
	if len(rr.consumed) != 1 || rr.consumed[0] != "refresh-xyz" {
		t.Fatalf("old token not consumed: %v", rr.consumed)
	}
	if len(rr.created) != 1 || rr.created[0] != 7 {
		t.Fatalf("new token not created for account 7: %v", rr.created)
	}
	if _, ok := rr.tokens[pair.RefreshToken]; !ok {
		t.Fatalf("new refresh token not stored")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_CannotBeRedeemedTwice(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := newFakeRefreshRepo(liveToken("refresh-xyz", 7))
	s := newTokenService(t, db, &fakeRepoManager{r: rr})

	if _, err := s.RefreshToken(context.Background(), "refresh-xyz"); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	if !errors.Is(err, common.ErrInvalidToken) || pair != nil {
		t.Fatalf("second refresh: want ErrInvalidToken, got (%+v, %v)", pair, err)
	}
	if len(rr.created) != 1 {
		t.Fatalf("only one pair may be minted, created %v", rr.created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rr := newFakeRefreshRepo(models.RefreshToken{AccountID: 7, Token: "r", Expires: time.Now().Add(-1 * time.Minute)})
	s := newTokenService(t, db, &fakeRepoManager{r: rr})

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("want ErrRefreshTokenExpired, got %v", err)
	}
	if len(rr.tokens) != 0 || len(rr.created) != 0 {
		t.Fatalf("expired token must be removed without a new pair: tokens=%v created=%v", rr.tokens, rr.created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := newTokenService(t, db, &fakeRepoManager{r: newFakeRefreshRepo()})

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestRefreshToken_ConsumeErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := newFakeRefreshRepo(liveToken("r", 7))
	rr.consumeErr = errBoom
	s := newTokenService(t, db, &fakeRepoManager{r: rr})

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error consuming refresh token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped consume error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_CreateErrRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := newFakeRefreshRepo(liveToken("r", 7))
	rr.createErr = errBoom
	s := newTokenService(t, db, &fakeRepoManager{r: rr})

	if _, err := s.RefreshToken(context.Background(), "r"); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
