package dto

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := CreateAccountRequest{
		CountryID: "  3201  ",
		Name:      " Ana Souza ",
		Email:     " ana@example.com",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "3201", req.CountryID)
	assert.Equal(t, "Ana Souza", req.Name)
	assert.Equal(t, "ana@example.com", req.Email)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := LockRequest{Reason: "fraud <script>alert('x')</script> review"}
	SanitizeStruct(&req)

	assert.Contains(t, req.Reason, "&lt;script&gt;")
	assert.NotContains(t, req.Reason, "<script>")
}

func TestSanitizeStruct_SkipsPasswords(t *testing.T) {
	req := CreateAccountRequest{
		Name:            "<b>Ana</b>",
		Password:        " Pa<ss>1! ",
		PasswordConfirm: " Pa<ss>1! ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "&lt;b&gt;Ana&lt;/b&gt;", req.Name)
	assert.Equal(t, " Pa<ss>1! ", req.Password)
	assert.Equal(t, " Pa<ss>1! ", req.PasswordConfirm)
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	s := "  note  "
	v := struct{ Note *string }{Note: &s}
	SanitizeStruct(&v)
	assert.Equal(t, "note", *v.Note)

	empty := struct{ Note *string }{}
	SanitizeStruct(&empty)
	assert.Nil(t, empty.Note)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID(t *testing.T) {
	for _, tc := range []string{"3201", "ID-001", "a.b_c"} {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
	for _, tc := range []string{"32 01", "id<1>", "id;DROP", "", "id\n1"} {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %q", tc)
	}
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Secret1!", true},
		{"aB3$xy", true},
		{"secret1!", false},                          // no upper case
		{"SECRET1!", false},                          // no lower case
		{"Secret!!", false},                          // no digit
		{"Secret12", false},                          // no special
		{"Se 1!ab", false},                           // whitespace
		{"Sé1!abc", false},                           // non-Latin
		{"aB3$x", false},                             // too short
		{"aB3$aaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false}, // too long
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.valid, StrongPassword(tt.password))
		})
	}
}

func TestParseDateBound(t *testing.T) {
	d := ParseDateBound("2024-03-05")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *d)

	ts := ParseDateBound("2024-03-05T10:30:00+02:00")
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC), *ts)

	assert.Nil(t, ParseDateBound(""))
	assert.Nil(t, ParseDateBound("yesterday"))
}

func TestCreateAccountRequest_Binding(t *testing.T) {
	valid := CreateAccountRequest{
		CountryID:       "3201",
		Name:            "Ana",
		Email:           "ana@example.com",
		BirthDate:       "1990-05-04",
		DebitCardType:   "gold",
		DepositMoney:    int64Ptr(0),
		Password:        "Secret1!",
		PasswordConfirm: "Secret1!",
	}
	require.NoError(t, binding.Validator.ValidateStruct(&valid))

	badDate := valid
	badDate.BirthDate = "04/05/1990"
	assert.Error(t, binding.Validator.ValidateStruct(&badDate))

	weak := valid
	weak.Password = "password"
	assert.Error(t, binding.Validator.ValidateStruct(&weak))

	missingDeposit := valid
	missingDeposit.DepositMoney = nil
	assert.Error(t, binding.Validator.ValidateStruct(&missingDeposit))

	negative := valid
	negative.DepositMoney = int64Ptr(-1)
	assert.Error(t, binding.Validator.ValidateStruct(&negative))
}

func TestCreateAccountRequest_ToPort(t *testing.T) {
	req := CreateAccountRequest{
		CountryID:       "3201",
		BirthDate:       "1990-05-04",
		DebitCardType:   "Gold",
		DepositMoney:    int64Ptr(200000),
		Password:        "Secret1!",
		PasswordConfirm: "Secret2!",
	}
	p := req.ToPort()

	assert.Equal(t, time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC), p.BirthDate)
	assert.Equal(t, int64(200000), p.InitialDeposit)
	assert.Equal(t, "Secret2!", p.PasswordConfirmation)
}

func TestHistoryQuery_Filter(t *testing.T) {
	q := HistoryQuery{
		StartDate:       "2024-01-01",
		TransactionType: "withdrawal",
		MinAmount:       int64Ptr(10),
	}
	require.NoError(t, binding.Validator.ValidateStruct(&q))

	f := q.Filter()
	require.NotNil(t, f.From)
	assert.Nil(t, f.To)
	require.NotNil(t, f.Type)
	assert.Equal(t, "withdrawal", string(*f.Type))
	assert.Equal(t, int64(10), *f.MinAmount)

	bad := HistoryQuery{TransactionType: "refund"}
	assert.Error(t, binding.Validator.ValidateStruct(&bad))

	badDate := HistoryQuery{EndDate: "not-a-date"}
	assert.Error(t, binding.Validator.ValidateStruct(&badDate))
}
