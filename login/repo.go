package login

// Repo holds live login flows keyed by the login_flow cookie
type Repo interface {
	Upsert(id string, flow *Flow) error
	Get(id string) (*Flow, error)
	Delete(id string) error
	DeleteExpired() int
}
