// Package cli is the interactive terminal front end of memodo.
//
// App wires the local store, the list services and the optional auth
// server together; runREPL reads one command per line and dispatches it.
// Every failure is printed and the loop keeps running.
//
//	todos                     list todos
//	add <text>                add a todo
//	done <id>                 toggle completion
//	edit <id> [text]          edit a todo (prompts when text is omitted)
//	rm <id>                   delete a todo
//	mv <id> <over-id>         drag a todo onto another one
//	notes                     list notes
//	note add|rename|rm|mv|lock|unlock|open ...
//	memo add|edit|rm|mv|ls ...
//	close                     leave the open note
//	signin | signup | signout
//	backup | backups
package cli
