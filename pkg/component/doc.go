// Package component provides the base types shared by all R2X model
// entities: identity (Component, Device), topology references (ACBus) and
// small value pairs (MinMax, UpDown, InputOutput).
package component
