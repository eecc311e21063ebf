package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cavina.GO/config"
	salesRepo "cavina.GO/model/repository/sales"
)

const (
	HeaderTerminalID = "X-Terminal-ID"
	HeaderTimestamp  = "X-Timestamp"
	HeaderSignature  = "X-Signature"

	// ContextTerminal holds the authenticated *sales.Terminal for handlers.
	ContextTerminal = "terminal"
)

// SignRequest computes the signature a terminal must attach: an HMAC-SHA256
// over "METHOD|path|timestamp|sha256(body)" keyed by the terminal's secret.
func SignRequest(secret, method, path string, timestamp int64, body []byte) string {
	bodyHash := sha256.Sum256(body)
	canonical := fmt.Sprintf("%s|%s|%d|%s", method, path, timestamp, hex.EncodeToString(bodyHash[:]))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// TerminalAuth authenticates terminal requests by signed headers. The
// timestamp must land within the configured clock-skew window, and the body
// is rewound after hashing so handlers can still bind it.
func TerminalAuth(db *gorm.DB) echo.MiddlewareFunc {
	repo := salesRepo.NewSalesRepository(db)
	cfg := config.LoadAppConfig()
	skew := time.Duration(cfg.HMACClockSkewSeconds) * time.Second
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			terminalID := c.Request().Header.Get(HeaderTerminalID)
			tsHeader := c.Request().Header.Get(HeaderTimestamp)
			signature := c.Request().Header.Get(HeaderSignature)
			if terminalID == "" || tsHeader == "" || signature == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing terminal auth headers")
			}
			timestamp, err := strconv.ParseInt(tsHeader, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed timestamp")
			}
			drift := time.Since(time.Unix(timestamp, 0))
			if drift < -skew || drift > skew {
				return echo.NewHTTPError(http.StatusUnauthorized, "timestamp outside allowed window")
			}

			terminal, err := repo.FindTerminal(terminalID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "terminal lookup failed")
			}
			if terminal == nil || terminal.Status != "active" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown terminal")
			}

			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			expected := SignRequest(terminal.Secret, c.Request().Method, c.Request().URL.Path, timestamp, body)
			if !hmac.Equal([]byte(expected), []byte(signature)) {
				return echo.NewHTTPError(http.StatusUnauthorized, "bad signature")
			}
			c.Set(ContextTerminal, terminal)
			return next(c)
		}
	}
}
