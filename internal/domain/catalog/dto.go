package catalog

// ---------- SALON ----------

type CreateSalonRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Address     string `json:"address" binding:"max=255"`
	City        string `json:"city" binding:"max=128"`
	Description string `json:"description"`
}

type CreateSpecialistRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Position string `json:"position" binding:"max=128"`
}

type CreateServiceRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Category string `json:"category" binding:"max=64"`
}

// ---------- SLOTS ----------

type CreateSlotRequest struct {
	SalonID         int64  `json:"salon_id" binding:"required"`
	ServiceID       int64  `json:"service_id" binding:"required"`
	SpecialistID    *int64 `json:"specialist_id"`
	Date            string `json:"date" binding:"required,date_ymd"`
	Time            string `json:"time" binding:"required,time_hm"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,gt=0,lte=1440"`
	Price           int64  `json:"price" binding:"gte=0"`
}

// UpdateSlotRequest — nil fields are left unchanged.
type UpdateSlotRequest struct {
	SpecialistID    *int64  `json:"specialist_id"`
	Date            *string `json:"date" binding:"omitempty,date_ymd"`
	Time            *string `json:"time" binding:"omitempty,time_hm"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,gt=0,lte=1440"`
	Price           *int64  `json:"price" binding:"omitempty,gte=0"`
}
