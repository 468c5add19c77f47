package contextkeys

type key string

// DBContextKey - ключ, под которым DBMiddleware кладет *gorm.DB запроса
const DBContextKey key = "db"
