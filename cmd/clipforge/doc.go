// Command clipforge is the operator CLI for the clipforged daemon: it submits
// composition jobs, inspects run status, triggers artifact reclamation, and
// manages configuration.
package main
