package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirgolp/flashcard/internal/api"
	"github.com/amirgolp/flashcard/internal/domain"
	"github.com/amirgolp/flashcard/internal/logging"
	"github.com/amirgolp/flashcard/internal/textutil"
)

func newBooksCommand(ctx *commandContext) *cobra.Command {
	booksCmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book"},
		Short:   "Manage uploaded books",
	}

	booksCmd.AddCommand(newBooksListCommand(ctx))
	booksCmd.AddCommand(newBooksShowCommand(ctx))
	booksCmd.AddCommand(newBooksUploadCommand(ctx))
	booksCmd.AddCommand(newBooksUpdateCommand(ctx))
	booksCmd.AddCommand(newBooksDeleteCommand(ctx))
	booksCmd.AddCommand(newBooksProgressCommand(ctx))
	booksCmd.AddCommand(newBooksChaptersCommand(ctx))

	return booksCmd
}

func newBooksListCommand(ctx *commandContext) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				books, err := rt.svc.Books(c)
				if err != nil {
					return err
				}
				books = api.FilterBooks(books, filter)
				if ctx.jsonOutput() {
					return writeJSON(cmd, books)
				}
				if len(books) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No books")
					return nil
				}
				rows := make([][]string, 0, len(books))
				for _, b := range books {
					rows = append(rows, []string{
						b.ID,
						cell(b.Title),
						strconv.Itoa(b.TotalPages),
						strconv.Itoa(len(b.Chapters)),
						languagePair(b),
						formatWhen(b.DateCreated),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Pages", "Chapters", "Languages", "Uploaded"},
					rows,
					2, 3,
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show books whose title contains this text")
	return cmd
}

func languagePair(b domain.Book) string {
	if b.TargetLanguage == "" && b.NativeLanguage == "" {
		return "-"
	}
	return fmt.Sprintf("%s -> %s", orDash(b.TargetLanguage), orDash(b.NativeLanguage))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

type bookDetail struct {
	domain.Book
	Progress *domain.BookProgress `json:"progress,omitempty"`
}

func newBooksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show BOOK_ID",
		Short: "Show a book with its chapters and reading progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				book, err := rt.svc.Book(c, args[0])
				if err != nil {
					return err
				}
				detail := bookDetail{Book: book}
				if progress, err := rt.svc.BookProgress(c, book.ID); err == nil {
					detail.Progress = &progress
				} else {
					rt.logger.Debug("book progress unavailable", logging.BookID(book.ID), logging.Error(err))
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, detail)
				}
				printBook(cmd, detail)
				return nil
			})
		},
	}
}

func printBook(cmd *cobra.Command, detail bookDetail) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	printSectionHeader(out, detail.Title, colorize)
	fmt.Fprintf(out, "%-15s %s\n", "ID:", detail.ID)
	fmt.Fprintf(out, "%-15s %s\n", "File:", orDash(detail.Filename))
	fmt.Fprintf(out, "%-15s %d\n", "Pages:", detail.TotalPages)
	fmt.Fprintf(out, "%-15s %s\n", "Languages:", languagePair(detail.Book))
	if p := detail.Progress; p != nil {
		fmt.Fprintf(out, "%-15s page %d, %d of %d pages processed\n", "Progress:", p.CurrentPage, p.ProcessedPages(), detail.TotalPages)
		if p.CurrentChapter != "" {
			fmt.Fprintf(out, "%-15s %s\n", "Chapter:", p.CurrentChapter)
		}
	}
	if len(detail.Chapters) == 0 {
		return
	}
	rows := make([][]string, 0, len(detail.Chapters))
	for _, ch := range detail.Chapters {
		rows = append(rows, []string{cell(ch.Name), strconv.Itoa(ch.StartPage), strconv.Itoa(ch.EndPage)})
	}
	fmt.Fprint(out, renderTable([]string{"Chapter", "Start", "End"}, rows, 1, 2))
}

func newBooksUploadCommand(ctx *commandContext) *cobra.Command {
	var in domain.BookUpload

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a PDF book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Path = args[0]
			if strings.TrimSpace(in.Title) == "" {
				in.Title = textutil.TitleFromFilename(in.Path)
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				book, err := rt.svc.UploadBook(c, in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, book)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s), %s\n", book.Title, book.ID, pluralize(book.TotalPages, "page", "pages"))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "Book title (defaults to the file name)")
	cmd.Flags().StringVar(&in.TargetLanguage, "target", "", "Language being learned")
	cmd.Flags().StringVar(&in.NativeLanguage, "native", "", "Language of the translations")
	return cmd
}

func newBooksUpdateCommand(ctx *commandContext) *cobra.Command {
	var title, target, native string

	cmd := &cobra.Command{
		Use:   "update BOOK_ID",
		Short: "Change a book's title or languages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.BookUpdate
			flags := cmd.Flags()
			setIfChanged(flags, "title", &title, &in.Title)
			setIfChanged(flags, "target", &target, &in.TargetLanguage)
			setIfChanged(flags, "native", &native, &in.NativeLanguage)
			if in.Title == nil && in.TargetLanguage == nil && in.NativeLanguage == nil {
				return fmt.Errorf("%w: nothing to update (use --title, --target or --native)", domain.ErrValidation)
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				book, err := rt.svc.UpdateBook(c, args[0], in)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, book)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated book %s (%s)\n", book.Title, book.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&target, "target", "", "Language being learned")
	cmd.Flags().StringVar(&native, "native", "", "Language of the translations")
	return cmd
}

func newBooksDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete BOOK_ID",
		Short: "Delete a book with its progress and drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				if err := rt.svc.DeleteBook(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted book %s\n", args[0])
				return nil
			})
		},
	}
}

func newBooksProgressCommand(ctx *commandContext) *cobra.Command {
	var page int
	var chapter string

	cmd := &cobra.Command{
		Use:   "progress BOOK_ID",
		Short: "Show or move a book's reading cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.BookProgressUpdate
			flags := cmd.Flags()
			if flags.Changed("page") {
				in.CurrentPage = &page
			}
			setIfChanged(flags, "chapter", &chapter, &in.CurrentChapter)
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				var progress domain.BookProgress
				var err error
				if in.CurrentPage == nil && in.CurrentChapter == nil {
					progress, err = rt.svc.BookProgress(c, args[0])
				} else {
					progress, err = rt.svc.UpdateBookProgress(c, args[0], in)
				}
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, progress)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Current page: %d\n", progress.CurrentPage)
				if progress.CurrentChapter != "" {
					fmt.Fprintf(out, "Current chapter: %s\n", progress.CurrentChapter)
				}
				fmt.Fprintf(out, "Pages processed: %d\n", progress.ProcessedPages())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Move the cursor to this page")
	cmd.Flags().StringVar(&chapter, "chapter", "", "Set the current chapter")
	return cmd
}

func newBooksChaptersCommand(ctx *commandContext) *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "chapters BOOK_ID",
		Short: "Show or replace a book's chapter list",
		Long: "Show or replace a book's chapter list.\n\n" +
			"Each --chapter takes \"name:start-end\"; the list replaces the existing\n" +
			"chapters as a whole and page spans are sent as given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapters := make([]domain.Chapter, 0, len(specs))
			for _, spec := range specs {
				ch, err := parseChapter(spec)
				if err != nil {
					return err
				}
				chapters = append(chapters, ch)
			}
			return ctx.withSession(cmd, func(c context.Context, rt *runtime) error {
				var book domain.Book
				var err error
				if cmd.Flags().Changed("chapter") {
					book, err = rt.svc.UpdateBookChapters(c, args[0], chapters)
				} else {
					book, err = rt.svc.Book(c, args[0])
				}
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, book.Chapters)
				}
				if len(book.Chapters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No chapters")
					return nil
				}
				rows := make([][]string, 0, len(book.Chapters))
				for _, ch := range book.Chapters {
					rows = append(rows, []string{cell(ch.Name), strconv.Itoa(ch.StartPage), strconv.Itoa(ch.EndPage)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Chapter", "Start", "End"}, rows, 1, 2))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&specs, "chapter", nil, "Chapter as name:start-end (repeatable)")
	return cmd
}

// parseChapter reads "name:start-end". The name may itself contain colons.
func parseChapter(spec string) (domain.Chapter, error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 {
		return domain.Chapter{}, fmt.Errorf("%w: chapter %q must look like name:start-end", domain.ErrValidation, spec)
	}
	name := strings.TrimSpace(spec[:idx])
	startText, endText, ok := strings.Cut(spec[idx+1:], "-")
	if !ok {
		return domain.Chapter{}, fmt.Errorf("%w: chapter %q must look like name:start-end", domain.ErrValidation, spec)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return domain.Chapter{}, fmt.Errorf("%w: chapter %q: bad start page", domain.ErrValidation, spec)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return domain.Chapter{}, fmt.Errorf("%w: chapter %q: bad end page", domain.ErrValidation, spec)
	}
	return domain.Chapter{Name: name, StartPage: start, EndPage: end}, nil
}
