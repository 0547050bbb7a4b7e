package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	log := NewLogger("debug", "production")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestAuditLoggerDealMutation(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogDealMutation("create", "deal_001", "Acme Robotics", "user_007", time.Now())

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "create", logEntry["action"])
	assert.Equal(t, "deal_001", logEntry["deal_id"])
}

func TestAuditLoggerHealthUpdate(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	runway := 4.5
	audit.LogHealthUpdate("pos_001", "user_007", "healthy", "warning", &runway)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["new_status"])
	assert.Equal(t, 4.5, logEntry["runway_months"])
}

func TestAuditLoggerDeckUploadRejection(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogDeckUpload("deal_001", "user_007", "deck.exe", 1024, false, "unsupported file type")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, false, logEntry["accepted"])
	assert.Equal(t, "unsupported file type", logEntry["reason"])
}
