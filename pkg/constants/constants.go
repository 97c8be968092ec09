package constants

type contextKey string

const (
	PoolKey      contextKey = "pool"
	TxKey        contextKey = "tx"
	ParamsKey    contextKey = "params"
	LoggerKey    contextKey = "logger"
	PrincipalKey contextKey = "principal"
	TenantIDKey  contextKey = "tenantID"
	RequestIDKey contextKey = "requestID"
)
