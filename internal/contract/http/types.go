package http

type Handler struct{}

func New() *Handler {
	return &Handler{}
}
