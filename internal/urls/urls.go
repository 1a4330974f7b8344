package urls

// Documentation URLs shown with troubleshooting hints.
// All URLs point to the Neo4j documentation at https://neo4j.com/docs/

// ConnectionURIs explains the neo4j:// and bolt:// URI schemes and their
// +s/+ssc encryption variants.
const ConnectionURIs = "https://neo4j.com/docs/go-manual/current/connect-advanced/"

// Authentication covers users, passwords and the auth settings of the server.
const Authentication = "https://neo4j.com/docs/operations-manual/current/authentication-authorization/"

// QueryTimeouts describes transaction timeouts on the server side.
const QueryTimeouts = "https://neo4j.com/docs/operations-manual/current/database-internals/transaction-management/"

// CypherManual is the reference for custom load queries.
const CypherManual = "https://neo4j.com/docs/cypher-manual/current/"

// APOCInstallation covers installing APOC, used by profiles with apoc: true.
const APOCInstallation = "https://neo4j.com/docs/apoc/current/installation/"
