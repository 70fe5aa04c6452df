package models

// Student defines the student registry entity based on the 'students' table.
// The ingestion core only reads students; ownership stays with the
// master-data import.
type Student struct {
	ID       int64  `json:"id" db:"id" example:"7"`
	NIS      string `json:"nis" db:"nis" example:"20250101"` // School registry number, unique
	Name     string `json:"name" db:"name" example:"Jane Doe"`
	ClassID  string `json:"classId" db:"class_id" example:"7A"`
	IsActive bool   `json:"isActive" db:"is_active" example:"true"`

	// Relations (populated when needed)
	Class *Class `json:"class,omitempty"`
}

// Class defines a school class based on the 'classes' table
type Class struct {
	ID                string `json:"id" db:"class_id" example:"7A"`
	Name              string `json:"name" db:"class_name" example:"7A"`
	HomeroomTeacherID string `json:"homeroomTeacherId,omitempty" db:"homeroom_teacher_id"`
}

// Teacher defines a homeroom teacher based on the 'teachers' table
type Teacher struct {
	ID   string `json:"id" db:"teacher_id" example:"T_FEMINASTIT"`
	Name string `json:"name" db:"name" example:"Femi Nastiti, S. Pd"`
	Role string `json:"role" db:"role" example:"Homeroom"`
}
