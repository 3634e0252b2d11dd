package ledger

import "github.com/dmitrijs2005/mark3t-rep/internal/client/models"

// Contract message names.
const (
	MethodGetAllRatings        = "get_all_ratings"
	MethodGetRatingsForSubject = "get_ratings_for_subject"
	MethodSubmitRating         = "submit_rating"
)

type QueryData struct {
	SubjectID *uint32 `json:"subject_id,omitempty"`
}

type QueryRequest struct {
	Method string     `json:"method"`
	Origin string     `json:"origin"`
	Data   *QueryData `json:"data,omitempty"`
}

type QueryValue struct {
	Response []models.RatingRecord `json:"response"`
}

type QueryResponse struct {
	Success bool        `json:"success"`
	Value   *QueryValue `json:"value,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type SendData struct {
	Rating models.RatingRecord `json:"rating"`
}

// SendRequest carries a signed contract message. Payload is the exact byte
// string that was signed: the JSON encoding of Data.
type SendRequest struct {
	Method    string   `json:"method"`
	Origin    string   `json:"origin"`
	Data      SendData `json:"data"`
	Payload   []byte   `json:"payload"`
	Signature []byte   `json:"signature"`
	PublicKey []byte   `json:"public_key,omitempty"`
}

type SendResponse struct {
	Ok            bool   `json:"ok"`
	Hash          string `json:"hash,omitempty"`
	DispatchError string `json:"dispatch_error,omitempty"`
}

type StorageRequest struct {
	Key []byte `json:"key"`
}

type StorageResponse struct {
	Found bool   `json:"found"`
	Value []byte `json:"value,omitempty"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
