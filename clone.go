package extract

import "reflect"

// extension is one typed value stored in Parts, with the copy function of
// its type captured at Insert time.
type extension struct {
	val any
	dup func(any) any
}

// copier returns the copy function used for extension values of type T.
// A T implementing Cloner[T] copies itself; any other value is copied
// deeply by reflection.
func copier[T any]() func(any) any {
	return func(v any) any {
		if v == nil {
			return nil
		}
		val := v.(T) //nolint:forcetypeassert // keyed by T
		if c, ok := any(val).(Cloner[T]); ok {
			return c.Clone()
		}
		return deepCopy(reflect.ValueOf(&val).Elem()).Interface()
	}
}

// deepCopy copies v so that the result shares no slice, map or pointer
// target with it. Unexported struct fields are copied as they are, and
// cyclic values must implement Cloner instead.
func deepCopy(v reflect.Value) reflect.Value {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		c := reflect.New(v.Type().Elem())
		c.Elem().Set(deepCopy(v.Elem()))
		return c
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		c := reflect.New(v.Type()).Elem()
		c.Set(deepCopy(v.Elem()))
		return c
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			c.Index(i).Set(deepCopy(v.Index(i)))
		}
		return c
	case reflect.Array:
		c := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			c.Index(i).Set(deepCopy(v.Index(i)))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(deepCopy(iter.Key()), deepCopy(iter.Value()))
		}
		return c
	case reflect.Struct:
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		for i := range v.NumField() {
			if c.Field(i).CanSet() {
				c.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return c
	default:
		return v
	}
}
