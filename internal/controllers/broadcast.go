package controllers

import (
	"time"

	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/ws"
)

// publishCheckIn tells the session owner's live view about a new attendee.
func publishCheckIn(hub *ws.AttendanceHub, session *models.Resource, student *models.User) {
	if hub == nil || session == nil {
		return
	}
	hub.Publish(session.OwnerIDRef, ws.AttendanceUpdate{
		SessionID:   session.ID,
		Code:        session.Code,
		ClassName:   session.ClassName,
		Count:       session.AttendanceCount,
		StudentID:   student.UserID,
		StudentName: student.FullName,
		At:          time.Now().UTC(),
	})
}
