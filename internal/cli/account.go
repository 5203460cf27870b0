package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/saulo-duarte/prepmate-api/internal/appstate"
)

func cmdSignup(ctx context.Context, sh *shell, _ []string) error {
	name, err := sh.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := sh.prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := sh.prompt("Password: ")
	if err != nil {
		return err
	}
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("name, email and password are required")
	}

	st, err := sh.store.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Welcome, %s.\n", st.Name)
	return nil
}

func cmdLogin(ctx context.Context, sh *shell, _ []string) error {
	email, err := sh.prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := sh.prompt("Password: ")
	if err != nil {
		return err
	}

	st, err := sh.store.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Logged in as %s (%d results).\n", st.Name, len(st.Results))
	return nil
}

func cmdLogout(_ context.Context, sh *shell, _ []string) error {
	sh.store.Wait()
	sh.store.Logout()
	fmt.Fprintln(sh.out, "Logged out. Results are now kept on this machine.")
	return nil
}

func cmdWhoami(_ context.Context, sh *shell, _ []string) error {
	if st := sh.store.Student(); st != nil {
		fmt.Fprintf(sh.out, "Student: %s <%s>\n", st.Name, st.Email)
	} else {
		fmt.Fprintln(sh.out, "Guest")
	}
	if sh.store.IsAdmin() {
		fmt.Fprintln(sh.out, "Admin mode")
	}
	return nil
}

func cmdExport(_ context.Context, sh *shell, args []string) error {
	path := filepath.Join(sh.opts.DataDir, appstate.ExportFileName(sh.opts.Now()))
	if len(args) > 0 {
		path = args[0]
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sh.store.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Backup written to %s\n", path)
	return nil
}

func cmdImport(ctx context.Context, sh *shell, args []string) error {
	if err := requireArgs(args, 1, "import <file> [merge|replace]"); err != nil {
		return err
	}
	mode := appstate.ImportReplace
	if len(args) > 1 {
		var err error
		if mode, err = appstate.ParseImportMode(args[1]); err != nil {
			return err
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := sh.store.Import(ctx, f, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Imported %d subjects (%s).\n", n, mode)
	return nil
}
