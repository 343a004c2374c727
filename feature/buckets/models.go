package buckets

import "time"

// Credentials is the key pair used to sign requests for one connection.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Connection is a registered bucket. It is immutable once registered.
type Connection struct {
	ID          string
	Name        string
	Description string
	Region      string
	Endpoint    string
	Credentials Credentials
	CreatedAt   time.Time
}

// ConnectionView is the API representation of a connection. The secret never leaves the service.
type ConnectionView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Region      string    `json:"region"`
	Endpoint    string    `json:"endpoint,omitempty"`
	AccessKeyID string    `json:"access_key_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// View returns the redacted representation.
func (c Connection) View() ConnectionView {
	return ConnectionView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Region:      c.Region,
		Endpoint:    c.Endpoint,
		AccessKeyID: c.Credentials.AccessKeyID,
		CreatedAt:   c.CreatedAt,
	}
}

// RegisterInput carries the fields of the connect-bucket form.
type RegisterInput struct {
	Name            string `json:"name" form:"name"`
	Description     string `json:"description" form:"description"`
	Region          string `json:"region" form:"region"`
	Endpoint        string `json:"endpoint" form:"endpoint"`
	AccessKeyID     string `json:"access_key_id" form:"accessKeyId"`
	SecretAccessKey string `json:"secret_access_key" form:"secretAccessKey"`
}

// Response mirrors the success/message envelope of the dashboard actions.
type Response struct {
	Success bool            `json:"success"`
	Bucket  *ConnectionView `json:"bucket,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ListResponse wraps the registered connections.
type ListResponse struct {
	Success bool             `json:"success"`
	Buckets []ConnectionView `json:"buckets"`
}
