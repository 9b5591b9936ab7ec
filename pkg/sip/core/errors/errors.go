// Package errors собирает таксономию ошибок ядра (раздел 7 спецификации):
// токенизатор, SIP и SDP грамматики, диспетчер тел сообщений, движок
// диалогов. Каждая ошибка — отдельное тегированное значение с собственным
// Kind; парсеры не возвращают иерархию исключений и не формируют частичных
// сообщений при ошибке.
package errors

import "fmt"

// Kind различает причину ошибки для программной проверки через errors.Is,
// не полагаясь на текст сообщения.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnexpectedChar
	KindNotEnoughBytes
	KindBadStartLine
	KindMissingHeaderValue
	KindHeaderTrailingData
	KindUnknownEnum
	KindUnknownBody
	KindMissingContentType
	KindInvalidField
	KindAttributeAtWrongLevel
	KindAttributeMultipleForbidden
	KindBadServerInfo
	KindDuplicateBranch
	KindTransactionNotFound
	KindChannelError
)

var kindNames = map[Kind]string{
	KindUnknown:                    "Unknown",
	KindUnexpectedChar:             "UnexpectedChar",
	KindNotEnoughBytes:             "NotEnoughBytes",
	KindBadStartLine:               "BadStartLine",
	KindMissingHeaderValue:         "MissingHeaderValue",
	KindHeaderTrailingData:         "HeaderTrailingData",
	KindUnknownEnum:                "UnknownEnum",
	KindUnknownBody:                "UnknownBody",
	KindMissingContentType:         "MissingContentType",
	KindInvalidField:               "InvalidField",
	KindAttributeAtWrongLevel:      "AttributeAtWrongLevel",
	KindAttributeMultipleForbidden: "AttributeMultipleForbidden",
	KindBadServerInfo:              "BadServerInfo",
	KindDuplicateBranch:            "DuplicateBranch",
	KindTransactionNotFound:        "TransactionNotFound",
	KindChannelError:               "ChannelError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error - тегированная ошибка ядра. Field и Context дают вызывающей стороне
// место происхождения без парсинга текста сообщения.
type Error struct {
	Kind    Kind
	Field   string // имя поля/заголовка/атрибута, если применимо
	Context string // дополнительный контекст (например, фрагмент входа)
	Code    int    // код транспорта, только для KindChannelError
	Err     error  // опциональная исходная ошибка (io.EOF и т.п.)
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindChannelError:
		return fmt.Sprintf("channel error (code %d): %s", e.Code, e.Context)
	case e.Field != "" && e.Context != "":
		return fmt.Sprintf("%s: field %q: %s", e.Kind, e.Field, e.Context)
	case e.Field != "":
		return fmt.Sprintf("%s: field %q", e.Kind, e.Field)
	case e.Context != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is позволяет errors.Is(err, New(KindX, "")) проверять только Kind,
// игнорируя Field/Context/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New создаёт ошибку ядра без указания конкретного поля.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

// Field создаёт ошибку, привязанную к конкретному полю/заголовку/атрибуту.
func Field(kind Kind, field, context string) *Error {
	return &Error{Kind: kind, Field: field, Context: context}
}

// Wrap оборачивает исходную ошибку (обычно io.*) под заданным Kind.
func Wrap(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// Channel строит KindChannelError из кода транспорта (спецификация §6.2).
func Channel(code int, context string) *Error {
	return &Error{Kind: KindChannelError, Code: code, Context: context}
}

// Of возвращает Kind ошибки ядра, либо KindUnknown если err не *Error.
func Of(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// as - локальная версия errors.As без импорта "errors", чтобы не
// пересекаться по имени пакета с текущим пакетом errors.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
