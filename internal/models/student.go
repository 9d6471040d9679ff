package models

// Student is the directory profile of a learner, keyed by roll number.
type Student struct {
	RollNumber string `db:"roll_number" bson:"roll_number" json:"roll_number"`
	FullName   string `db:"full_name" bson:"fullname" json:"full_name"`
	Batch      string `db:"batch" bson:"batch" json:"batch"`
	Branch     string `db:"branch" bson:"branch" json:"branch"`
	Semester   string `db:"semester" bson:"semester" json:"semester"`
	Email      string `db:"email" bson:"email_id" json:"email"`
	Phone      string `db:"phone" bson:"phone_number" json:"phone"`
}

// Cohort returns the (batch, branch, semester) triple the student belongs to.
func (s Student) Cohort() Cohort {
	return Cohort{Batch: s.Batch, Branch: s.Branch, Semester: s.Semester}
}
