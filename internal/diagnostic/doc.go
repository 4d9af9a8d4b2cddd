// Package diagnostic collects the coded errors, warnings and notes produced
// while planning data-access methods.
//
// Every diagnostic names the method it belongs to ("UserDAO.FindByID") and,
// when known, the type or bound expression it is about. A method with any
// error diagnostic gets no generated body.
package diagnostic
