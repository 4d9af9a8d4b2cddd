// Package daofile provides the YAML declaration file of data-access objects:
// schema definitions, parsing, validation and resolution into planner input.
//
// # Schema Overview
//
//	version: "1"
//	package: dao
//	output: ./dao
//	load:
//	  - dao-generator/store
//	tables:
//	  - name: users
//	    columns:
//	      - {name: id, kind: integer, not_null: true}
//	      - {name: email, kind: text, default: "'nobody'"}
//	entities:
//	  - type: store.User
//	    table: users
//	  - type: store.UserSummary
//	    routine: store.ScanUserSummary
//	daos:
//	  - name: UserDAO
//	    methods:
//	      - name: FindByID
//	        params:
//	          - id: int64
//	        returns: "*store.User"
//	        query: SELECT * FROM users WHERE id = :id
//	      - name: Rename
//	        params:
//	          - id: int64
//	          - {name: email, type: string, kind: text}
//	        query: UPDATE users SET email = :email WHERE id = :id
//	      - name: RenameInTx
//	        params: [{id: int64}, {email: string}]
//	        delegate: Rename
//
// Type expressions accept predeclared types, "pkg.Name" (short or full
// import path), and the "*T", "[]T" and "[N]T" forms. An empty "returns"
// declares a method returning only an error.
//
// Write statements (INSERT, REPLACE, UPDATE, DELETE) run inside a
// transaction unless "transaction: false" is given; the default can be
// changed with "defaults: {write_transaction: false}".
package daofile
