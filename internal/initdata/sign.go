package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// secretKeyLabel is the fixed HMAC key the Mini App protocol derives the signing secret with.
const secretKeyLabel = "WebAppData"

// User is the subset of the Telegram user object the backend reads.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Sign builds init data for user as the host would, signed with botToken.
// The result is accepted by a backend that shares the bot token, which makes
// it possible to run the client outside Telegram during development.
func Sign(botToken string, user User, authDate time.Time) (string, error) {
	if botToken == "" {
		return "", fmt.Errorf("bot token cannot be empty")
	}
	if user.ID == 0 {
		return "", fmt.Errorf("user id cannot be zero")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshaling user: %w", err)
	}

	fields := map[string]string{
		"auth_date": strconv.FormatInt(authDate.Unix(), 10),
		"user":      string(userJSON),
	}
	hash := signature(botToken, fields)

	return "auth_date=" + fields["auth_date"] +
		"&user=" + url.QueryEscape(fields["user"]) +
		"&hash=" + hash, nil
}

// Verify reports whether initData carries a valid signature for botToken.
func Verify(botToken, initData string) (bool, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false, fmt.Errorf("parsing init data: %w", err)
	}
	got := values.Get("hash")
	if got == "" {
		return false, fmt.Errorf("hash missing")
	}

	fields := make(map[string]string, len(values))
	for k := range values {
		if k != "hash" {
			fields[k] = values.Get(k)
		}
	}
	return hmac.Equal([]byte(signature(botToken, fields)), []byte(got)), nil
}

// signature computes the hex HMAC over the sorted "key=value" data-check string.
func signature(botToken string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + fields[k]
	}

	secret := hmacSum([]byte(secretKeyLabel), []byte(botToken))
	return hex.EncodeToString(hmacSum(secret, []byte(strings.Join(lines, "\n"))))
}

func hmacSum(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
