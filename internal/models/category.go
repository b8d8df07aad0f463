package models

import "time"

// Category — узел иерархического справочника тем обращений.
type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	IsActive    bool       `json:"is_active"`
	ParentID    *string    `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// CategoryInput — данные для создания категории из JSON-запроса.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100,nonul"`
	Icon        string  `json:"icon" validate:"required,max=50,nonul"`
	Description string  `json:"description" validate:"required,max=500,nonul"`
	Order       int     `json:"order" validate:"gte=0"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
}

// CategoryPatch — частичное обновление: nil означает «не менять».
type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100,nonul"`
	Icon        *string `json:"icon" validate:"omitempty,min=1,max=50,nonul"`
	Description *string `json:"description" validate:"omitempty,max=500,nonul"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
	// ParentID: пустая строка делает категорию корневой, несуществующий
	// родитель отклоняется сервисом.
	ParentID    *string `json:"parent_id"`
}

// CategoryFilter — параметры выборки списка категорий.
type CategoryFilter struct {
	ActiveOnly bool
	ParentID   *string
}
