//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// ContentType represents the kind of reply bound to a trigger
// ENUM(text,button_text,sticker,document,photo,audio,voice,video)
type ContentType string

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string
