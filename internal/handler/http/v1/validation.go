package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Поля запроса в порядке вывода ошибок
var requestFields = []string{"location", "critical_patients", "stable_patients", "scenario"}

// Сообщения об ошибках по полям запроса, независимо от нарушенного правила
var fieldMessages = map[string]string{
	"location":          "location must be a non-empty string",
	"critical_patients": "critical_patients must be a non-negative integer",
	"stable_patients":   "stable_patients must be a non-negative integer",
	"scenario":          "scenario must be one of 1, 2, 3, 4",
}

// newValidator создает валидатор, который называет поля по JSON-тегам
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validator: %v", err))
	}
	return v
}

// typeMismatches возвращает поля тела запроса, значения которых не подходят по типу.
// encoding/json сообщает только о первом таком поле, а указатель на него уже выделен.
func typeMismatches(body []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	var bad []string
	for _, name := range requestFields {
		value, ok := raw[name]
		if !ok {
			continue
		}
		var target any = new(int)
		if name == "location" {
			target = new(string)
		}
		if err := json.Unmarshal(value, target); err != nil {
			bad = append(bad, name)
		}
	}
	return bad
}

// validationDetails собирает все ошибки валидации, а не только первую
func validationDetails(v *validator.Validate, input any, mismatched []string) []string {
	failed := make(map[string]string)
	for _, name := range mismatched {
		failed[name] = fieldMessage(name, "type")
	}

	if err := v.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			if _, ok := failed[fe.Field()]; !ok {
				failed[fe.Field()] = fieldMessage(fe.Field(), fe.Tag())
			}
		}
	}

	details := make([]string, 0, len(failed))
	for _, name := range requestFields {
		if msg, ok := failed[name]; ok {
			details = append(details, msg)
			delete(failed, name)
		}
	}
	rest := make([]string, 0, len(failed))
	for _, msg := range failed {
		rest = append(rest, msg)
	}
	sort.Strings(rest)
	return append(details, rest...)
}

func fieldMessage(field, tag string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, tag)
}
