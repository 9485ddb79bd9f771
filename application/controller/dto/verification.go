package dto

// VerifyFacesDTO carries the multipart verification request after the router
// has read both file parts.
type VerifyFacesDTO struct {
	UserID         string `validate:"required,user_id"`
	LiveImage      []byte `validate:"required"`
	ReferenceImage []byte `validate:"required"`
}

// Banker override actions on a pipeline decision.
const (
	BankerApprove    = "BANKER_APPROVE"
	BankerReject     = "BANKER_REJECT"
	RequestRecapture = "REQUEST_RECAPTURE"
)

type BankerDecideDTO struct {
	DecisionID string  `json:"decisionID" validate:"required"`
	Action     string  `json:"action" validate:"required,oneof=BANKER_APPROVE BANKER_REJECT REQUEST_RECAPTURE"`
	Reasoning  *string `json:"reasoning" validate:"omitempty,max=500"`
}
