package booking

type ReserveRequest struct {
	SlotID int64 `json:"slot_id" binding:"required,gt=0"`
}
