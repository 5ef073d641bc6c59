package api

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers follow accounts.proto.

type PingRequest struct{}

func (m *PingRequest) appendWire(b []byte) []byte { return b }

func (m *PingRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return skipField(num, typ, b)
}

type PingResponse struct {
	Status string
}

func (m *PingResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Status)
}

func (m *PingResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(num, typ, b, &m.Status)
	}
	return skipField(num, typ, b)
}

type Credentials struct {
	Username string
	Password string
}

func (m *Credentials) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	return appendString(b, 2, m.Password)
}

func (m *Credentials) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(num, typ, b, &m.Username)
	case 2:
		return consumeString(num, typ, b, &m.Password)
	}
	return skipField(num, typ, b)
}

type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (m *Profile) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.FirstName)
	b = appendString(b, 2, m.LastName)
	b = appendString(b, 3, m.Email)
	return appendString(b, 4, m.Phone)
}

func (m *Profile) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(num, typ, b, &m.FirstName)
	case 2:
		return consumeString(num, typ, b, &m.LastName)
	case 3:
		return consumeString(num, typ, b, &m.Email)
	case 4:
		return consumeString(num, typ, b, &m.Phone)
	}
	return skipField(num, typ, b)
}

// Account is the full view of an account. It never carries the password.
type Account struct {
	ID       int64
	Username string
	Profile  Profile
	IsAdmin  bool
	Active   bool
	Status   string
}

func (m *Account) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendString(b, 2, m.Username)
	b = appendEmbedded(b, 3, &m.Profile)
	b = appendBool(b, 4, m.IsAdmin)
	b = appendBool(b, 5, m.Active)
	return appendString(b, 6, m.Status)
}

func (m *Account) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeInt64(num, typ, b, &m.ID)
	case 2:
		return consumeString(num, typ, b, &m.Username)
	case 3:
		return consumeMessage(num, typ, b, &m.Profile)
	case 4:
		return consumeBool(num, typ, b, &m.IsAdmin)
	case 5:
		return consumeBool(num, typ, b, &m.Active)
	case 6:
		return consumeString(num, typ, b, &m.Status)
	}
	return skipField(num, typ, b)
}

// AccountSummary is the basic view used in listings.
type AccountSummary struct {
	ID      int64
	Profile Profile
	Active  bool
	Status  string
}

func (m *AccountSummary) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, m.ID)
	b = appendEmbedded(b, 2, &m.Profile)
	b = appendBool(b, 3, m.Active)
	return appendString(b, 4, m.Status)
}

func (m *AccountSummary) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeInt64(num, typ, b, &m.ID)
	case 2:
		return consumeMessage(num, typ, b, &m.Profile)
	case 3:
		return consumeBool(num, typ, b, &m.Active)
	case 4:
		return consumeString(num, typ, b, &m.Status)
	}
	return skipField(num, typ, b)
}

type LoginRequest struct {
	Username string
	Password string
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(num, typ, b, &m.Username)
	case 2:
		return consumeString(num, typ, b, &m.Password)
	}
	return skipField(num, typ, b)
}

type LoginResponse struct {
	Account      *Account
	AccessToken  string
	RefreshToken string
}

func (m *LoginResponse) appendWire(b []byte) []byte {
	if m.Account != nil {
		b = appendMessage(b, 1, m.Account)
	}
	b = appendString(b, 2, m.AccessToken)
	return appendString(b, 3, m.RefreshToken)
}

func (m *LoginResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		if typ != protowire.BytesType {
			return skipField(num, typ, b)
		}
		if m.Account == nil {
			m.Account = new(Account)
		}
		return consumeMessage(num, typ, b, m.Account)
	case 2:
		return consumeString(num, typ, b, &m.AccessToken)
	case 3:
		return consumeString(num, typ, b, &m.RefreshToken)
	}
	return skipField(num, typ, b)
}

type RefreshTokenRequest struct {
	RefreshToken string
}

func (m *RefreshTokenRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.RefreshToken)
}

func (m *RefreshTokenRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(num, typ, b, &m.RefreshToken)
	}
	return skipField(num, typ, b)
}

type RefreshTokenResponse struct {
	AccessToken  string
	RefreshToken string
}

func (m *RefreshTokenResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	return appendString(b, 2, m.RefreshToken)
}

func (m *RefreshTokenResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(num, typ, b, &m.AccessToken)
	case 2:
		return consumeString(num, typ, b, &m.RefreshToken)
	}
	return skipField(num, typ, b)
}

type ListAccountsRequest struct{}

func (m *ListAccountsRequest) appendWire(b []byte) []byte { return b }

func (m *ListAccountsRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	return skipField(num, typ, b)
}

type ListAccountsResponse struct {
	Accounts []*AccountSummary
}

func (m *ListAccountsResponse) appendWire(b []byte) []byte {
	for _, a := range m.Accounts {
		if a == nil {
			a = &AccountSummary{}
		}
		b = appendMessage(b, 1, a)
	}
	return b
}

func (m *ListAccountsResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 || typ != protowire.BytesType {
		return skipField(num, typ, b)
	}
	a := new(AccountSummary)
	n, err := consumeMessage(num, typ, b, a)
	if err != nil {
		return 0, err
	}
	m.Accounts = append(m.Accounts, a)
	return n, nil
}

// CreateAccountRequest may carry active and status, as older clients send
// them. The server ignores both: new accounts always start active and
// PENDING.
type CreateAccountRequest struct {
	Credentials Credentials
	Profile     Profile
	IsAdmin     bool
	Active      *bool
	Status      string
}

func (m *CreateAccountRequest) appendWire(b []byte) []byte {
	b = appendEmbedded(b, 1, &m.Credentials)
	b = appendEmbedded(b, 2, &m.Profile)
	b = appendBool(b, 3, m.IsAdmin)
	b = appendOptionalBool(b, 4, m.Active)
	return appendString(b, 5, m.Status)
}

func (m *CreateAccountRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeMessage(num, typ, b, &m.Credentials)
	case 2:
		return consumeMessage(num, typ, b, &m.Profile)
	case 3:
		return consumeBool(num, typ, b, &m.IsAdmin)
	case 4:
		return consumeOptionalBool(num, typ, b, &m.Active)
	case 5:
		return consumeString(num, typ, b, &m.Status)
	}
	return skipField(num, typ, b)
}

type CreateAccountResponse struct {
	Account *Account
}

func (m *CreateAccountResponse) appendWire(b []byte) []byte {
	if m.Account != nil {
		b = appendMessage(b, 1, m.Account)
	}
	return b
}

func (m *CreateAccountResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num != 1 || typ != protowire.BytesType {
		return skipField(num, typ, b)
	}
	if m.Account == nil {
		m.Account = new(Account)
	}
	return consumeMessage(num, typ, b, m.Account)
}
