package types

import "time"

// DateLayout is the wire and spreadsheet format of a leave date.
const DateLayout = "2006-01-02"

// LeaveRecord is one persisted leave request. ID and CreateTime are assigned
// by the database on insert.
type LeaveRecord struct {
	ID         int64     `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"studentId"`
	Name       string    `db:"name" json:"name"`
	Reason     string    `db:"reason" json:"reason"`
	LeaveDate  time.Time `db:"leave_date" json:"leaveDate"`
	PhotoURL   string    `db:"photo_url" json:"photoUrl"`
	CreateTime time.Time `db:"create_time" json:"createTime"`
}

// FormattedLeaveDate renders LeaveDate with DateLayout.
func (r *LeaveRecord) FormattedLeaveDate() string {
	return r.LeaveDate.Format(DateLayout)
}
