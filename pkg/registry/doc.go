// Package registry provides a generic, insertion-ordered registry used for
// the module catalog and the extension catalog. Order is part of the
// contract: hook dispatch walks it forwards and proc dispatch backwards.
package registry
