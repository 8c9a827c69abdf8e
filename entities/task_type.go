package entities

// TaskType is the global catalog of loggable actions.
type TaskType struct {
	TaskTypeID  uint   `gorm:"primaryKey" json:"task_type_id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"size:50;index" json:"category"` // inspection|feeding|treatment|harvest|maintenance|event
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	Order       int    `gorm:"column:display_order;default:0" json:"order"`
}
