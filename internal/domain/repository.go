package domain

// Repository identifies the git checkout the publish step runs from.
type Repository struct {
	Root      string
	Owner     string
	Name      string
	RemoteURL string
}
