// Package template defines the template engine seam HTML renderers use.
package template
