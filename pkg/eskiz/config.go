package eskiz

// Config supplies the Eskiz gateway credentials and the registered
// alpha-name used as the message originator.
type Config interface {
	Email() string
	Password() string
	Sender() string
}

type staticConfig struct {
	email    string
	password string
	sender   string
}

func NewConfig(email, password, sender string) Config {
	return staticConfig{email: email, password: password, sender: sender}
}

func (c staticConfig) Email() string    { return c.email }
func (c staticConfig) Password() string { return c.password }
func (c staticConfig) Sender() string   { return c.sender }
