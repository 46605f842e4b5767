// Package validator 封装 go-playground/validator 为 gin 的结构体校验器
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	val "github.com/go-playground/validator/v10"
)

// CustomValidator 实现 gin binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	Validate *val.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// NewCustomValidator 创建校验器实例
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 校验结构体，slice/array 会逐项校验
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		return v.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		v.lazyinit()
		return v.Validate.Struct(obj)
	case reflect.Slice, reflect.Array:
		count := value.Len()
		var errs val.ValidationErrors
		for i := 0; i < count; i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				if ve, ok := err.(val.ValidationErrors); ok {
					errs = append(errs, ve...)
				} else {
					return err
				}
			}
		}
		if len(errs) > 0 {
			return errs
		}
		return nil
	default:
		return nil
	}
}

// Engine 返回底层校验引擎
func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.Validate = val.New()
		v.Validate.SetTagName("binding")
		// 字段名优先取 json tag，保证错误信息与请求体字段一致
		v.Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// RegisterCustom 注册自定义校验规则
func (v *CustomValidator) RegisterCustom(tag string, fn val.Func) error {
	v.lazyinit()
	return v.Validate.RegisterValidation(tag, fn)
}
