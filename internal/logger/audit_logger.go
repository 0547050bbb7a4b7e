// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for record
// mutations and upload activity.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogDealMutation logs a create or update of a deal record.
func (al *AuditLogger) LogDealMutation(action, dealID, companyName, userID string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"action":       action,
		"deal_id":      dealID,
		"company_name": companyName,
		"user_id":      userID,
		"timestamp":    timestamp.Unix(),
	}).Info("Deal mutation recorded")
}

// LogHealthUpdate logs a portfolio position health check.
func (al *AuditLogger) LogHealthUpdate(positionID, userID string, oldStatus, newStatus string, runwayMonths *float64) {
	fields := logrus.Fields{
		"position_id": positionID,
		"user_id":     userID,
		"old_status":  oldStatus,
		"new_status":  newStatus,
	}
	if runwayMonths != nil {
		fields["runway_months"] = *runwayMonths
	}
	al.WithFields(fields).Info("Position health updated")
}

// LogDeckUpload logs a pitch deck upload attempt.
func (al *AuditLogger) LogDeckUpload(dealID, userID, filename string, sizeBytes int64, accepted bool, reason string) {
	al.WithFields(logrus.Fields{
		"deal_id":    dealID,
		"user_id":    userID,
		"filename":   filename,
		"size_bytes": sizeBytes,
		"accepted":   accepted,
		"reason":     reason,
	}).Info("Deck upload recorded")
}

// LogReviewSaved logs a weekly review upsert.
func (al *AuditLogger) LogReviewSaved(userID string, weekStart time.Time, created bool) {
	al.WithFields(logrus.Fields{
		"user_id":    userID,
		"week_start": weekStart.Format("2006-01-02"),
		"created":    created,
	}).Info("Weekly review saved")
}
