package entity

// Package type constants for Selection
const (
	PackageBase = "BASE"
	PackageMDO  = "MDO"
)

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)
