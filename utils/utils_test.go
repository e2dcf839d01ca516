package utils

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "teacher")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "teacher", claims.Role)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestJWTRejectsWrongSecretAndExpired(t *testing.T) {
	token, err := NewJWTManager("a", time.Hour).GenerateToken(uuid.New(), "student")
	require.NoError(t, err)
	_, err = NewJWTManager("b", time.Hour).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:   uuid.NewString(),
		Role: "student",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("a"))
	require.NoError(t, err)
	_, err = NewJWTManager("a", time.Hour).VerifyToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTManager("a", time.Hour).VerifyToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestLoggerFromContext(t *testing.T) {
	assert.Equal(t, slog.Default(), LoggerFromContext(context.Background()))
	l := slog.Default().With("request_id", "r1")
	assert.Equal(t, l, LoggerFromContext(ContextWithLogger(context.Background(), l)))
}

func TestValidateImage(t *testing.T) {
	header := func(ct string, size int64) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", ct)
		return &multipart.FileHeader{Filename: "x", Header: h, Size: size}
	}

	ext, err := ValidateImage(header("image/png", 100))
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = ValidateImage(header("application/pdf", 100))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = ValidateImage(header("image/jpeg", MaxImageSize+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestNilSupabaseStorage(t *testing.T) {
	s := NewSupabaseStorage("", "", "bucket")
	assert.Nil(t, s)
	_, err := s.UploadImage(&multipart.FileHeader{}, "images")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
