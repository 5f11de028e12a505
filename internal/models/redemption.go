package models

import "time"

// Redemption links a student to a resource they unlocked with its access code.
type Redemption struct {
	ID            uint   `gorm:"primaryKey"`
	StudentIDRef  string `gorm:"uniqueIndex:uniq_student_resource"`
	ResourceIDRef string `gorm:"uniqueIndex:uniq_student_resource;index"`
	CreatedAt     time.Time
}

// AttendanceMark is one student's check-in on an attendance session.
type AttendanceMark struct {
	ID            uint   `gorm:"primaryKey"`
	StudentIDRef  string `gorm:"uniqueIndex:uniq_student_session"`
	ResourceIDRef string `gorm:"uniqueIndex:uniq_student_session;index"`
	CreatedAt     time.Time
}
