package transport

import "github.com/google/uuid"

type AddItemRequest struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
